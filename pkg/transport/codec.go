package transport

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

var byteOrder = binary.BigEndian

// WriteMessage writes a Header followed by the binary encoding of body.
// body must contain only fixed-size fields (this holds for every message
// type in this package), so a single binary.Write serializes it exactly
// as original_source's MessageSerializer would memcpy a C struct.
func WriteMessage(w io.Writer, kind MessageKind, timestamp uint64, body any) error {
	var payload bytes.Buffer
	if err := binary.Write(&payload, byteOrder, body); err != nil {
		return fmt.Errorf("transport: encode %s body: %w", kind, err)
	}

	header := Header{Kind: kind, Length: uint32(payload.Len()), Timestamp: timestamp}
	if err := binary.Write(w, byteOrder, &header); err != nil {
		return fmt.Errorf("transport: encode header: %w", err)
	}
	if _, err := w.Write(payload.Bytes()); err != nil {
		return fmt.Errorf("transport: write %s body: %w", kind, err)
	}
	return nil
}

// ReadHeader reads and decodes a Header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var header Header
	if err := binary.Read(r, byteOrder, &header); err != nil {
		return Header{}, err
	}
	return header, nil
}

// ReadBody reads exactly header.Length bytes from r and decodes them into
// body, which must be a pointer to one of this package's message structs.
func ReadBody(r io.Reader, header Header, body any) error {
	buf := make([]byte, header.Length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("transport: read %s body: %w", header.Kind, err)
	}
	if err := binary.Read(bytes.NewReader(buf), byteOrder, body); err != nil {
		return fmt.Errorf("transport: decode %s body: %w", header.Kind, err)
	}
	return nil
}

// ReadMessage reads one full frame (header + body) and returns the kind
// alongside the body decoded into the matching concrete type.
func ReadMessage(r io.Reader) (MessageKind, any, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return 0, nil, err
	}

	var body any
	switch header.Kind {
	case KindNewOrder:
		body = &NewOrderMessage{}
	case KindCancelOrder:
		body = &CancelOrderMessage{}
	case KindModifyOrder:
		body = &ModifyOrderMessage{}
	case KindOrderAck:
		body = &OrderAckMessage{}
	case KindOrderReject:
		body = &OrderRejectMessage{}
	case KindExecutionReport:
		body = &ExecutionReportMessage{}
	case KindMarketData:
		body = &MarketDataMessage{}
	case KindHeartbeat:
		body = &HeartbeatMessage{}
	default:
		return header.Kind, nil, fmt.Errorf("transport: unknown message kind %d", header.Kind)
	}

	if err := ReadBody(r, header, body); err != nil {
		return header.Kind, nil, err
	}
	return header.Kind, body, nil
}
