// Package plcclient implements a stateless client for the device's binary,
// register-oriented TCP protocol (MBAP framing, function codes 3 and 6).
//
// Grounded on original_source/crates/operator/src/plc_client.rs: a fresh
// TCP connection per call, no pooling, no retries — retry policy belongs to
// the caller (the controller runtime), not this layer.
package plcclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync/atomic"
	"time"
)

// Client is the narrow contract the Reconciler depends on. Extracted as an
// interface so tests can substitute a fake without opening sockets.
type Client interface {
	ReadRegister(ctx context.Context, addr string, port int32, reg uint16) (uint16, error)
	WriteRegister(ctx context.Context, addr string, port int32, reg uint16, value uint16) error
	Reachable(ctx context.Context, addr string, port int32) bool
}

// ModbusClient is the real, network-backed Client implementation.
type ModbusClient struct {
	// ConnectTimeout bounds the TCP handshake. Defaults to 3s.
	ConnectTimeout time.Duration
	// OperationTimeout bounds the request/response exchange once
	// connected. Defaults to 3s.
	OperationTimeout time.Duration

	dialer net.Dialer
	nextID atomic.Uint32
}

var _ Client = (*ModbusClient)(nil)

// NewModbusClient builds a client with the spec's default timeouts.
func NewModbusClient() *ModbusClient {
	return &ModbusClient{
		ConnectTimeout:   3 * time.Second,
		OperationTimeout: 3 * time.Second,
	}
}

func (c *ModbusClient) connectTimeout() time.Duration {
	if c.ConnectTimeout > 0 {
		return c.ConnectTimeout
	}
	return 3 * time.Second
}

func (c *ModbusClient) operationTimeout() time.Duration {
	if c.OperationTimeout > 0 {
		return c.OperationTimeout
	}
	return 3 * time.Second
}

func (c *ModbusClient) dial(ctx context.Context, addr string, port int32) (net.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.connectTimeout())
	defer cancel()

	target := net.JoinHostPort(addr, strconv.Itoa(int(port)))
	conn, err := c.dialer.DialContext(dialCtx, "tcp", target)
	if err != nil {
		if dialCtx.Err() != nil {
			return nil, newError("dial", KindTimeout, err)
		}
		return nil, newError("dial", KindUnreachable, err)
	}
	return conn, nil
}

// ReadRegister opens a connection, issues a read-holding-registers request
// for a single register at reg, and returns its 16-bit value.
func (c *ModbusClient) ReadRegister(ctx context.Context, addr string, port int32, reg uint16) (uint16, error) {
	conn, err := c.dial(ctx, addr, port)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.operationTimeout())); err != nil {
		return 0, newError("read_register", KindProtocolError, err)
	}

	txID := uint16(c.nextID.Add(1))
	req := encodeReadHoldingRegisters(txID, reg, 1)
	if _, err := conn.Write(req); err != nil {
		return 0, classifyIOError("read_register", err)
	}

	pdu, err := readResponsePDU(conn)
	if err != nil {
		return 0, classifyIOError("read_register", err)
	}
	if len(pdu) == 0 {
		return 0, newError("read_register", KindEmptyResponse, fmt.Errorf("device closed connection"))
	}

	value, err := decodeReadHoldingRegistersResponse(pdu)
	if err != nil {
		return 0, newError("read_register", KindProtocolError, err)
	}
	return value, nil
}

// WriteRegister opens a connection, issues a write-single-register request,
// and confirms the device echoed the same register/value pair.
func (c *ModbusClient) WriteRegister(ctx context.Context, addr string, port int32, reg uint16, value uint16) error {
	conn, err := c.dial(ctx, addr, port)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.operationTimeout())); err != nil {
		return newError("write_register", KindProtocolError, err)
	}

	txID := uint16(c.nextID.Add(1))
	req := encodeWriteSingleRegister(txID, reg, value)
	if _, err := conn.Write(req); err != nil {
		return classifyIOError("write_register", err)
	}

	pdu, err := readResponsePDU(conn)
	if err != nil {
		return classifyIOError("write_register", err)
	}
	if len(pdu) == 0 {
		return newError("write_register", KindEmptyResponse, fmt.Errorf("device closed connection"))
	}

	if err := decodeWriteSingleRegisterResponse(pdu, reg, value); err != nil {
		return newError("write_register", KindProtocolError, err)
	}
	return nil
}

// Reachable attempts a bare TCP connect, distinguishing network failure
// from protocol failure for the caller.
func (c *ModbusClient) Reachable(ctx context.Context, addr string, port int32) bool {
	conn, err := c.dial(ctx, addr, port)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// readResponsePDU reads one full MBAP-framed response and returns its PDU
// (everything after the unit id byte).
func readResponsePDU(conn net.Conn) ([]byte, error) {
	header := make([]byte, mbapHeaderSize)
	if _, err := io.ReadFull(conn, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, nil
		}
		return nil, err
	}
	hdr, err := decodeHeader(header)
	if err != nil {
		return nil, err
	}
	if hdr.length == 0 {
		return nil, fmt.Errorf("zero-length frame")
	}
	pdu := make([]byte, hdr.length-1) // length includes the unit id byte
	if _, err := io.ReadFull(conn, pdu); err != nil {
		return nil, err
	}
	return pdu, nil
}

func classifyIOError(op string, err error) error {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return newError(op, KindTimeout, err)
	}
	return newError(op, KindProtocolError, err)
}
