package plcclient_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fabgitops/operator/internal/plcclient"
	"github.com/fabgitops/operator/internal/plcclient/fakedevice"
)

func TestReadRegister(t *testing.T) {
	srv, err := fakedevice.New(4001, 2500)
	if err != nil {
		t.Fatalf("fakedevice.New: %v", err)
	}
	defer srv.Close()

	addr, port := srv.Addr()
	c := plcclient.NewModbusClient()

	got, err := c.ReadRegister(context.Background(), addr, port, 4001)
	if err != nil {
		t.Fatalf("ReadRegister: %v", err)
	}
	if got != 2500 {
		t.Fatalf("ReadRegister = %d, want 2500", got)
	}
}

func TestReadRegisterWrongAddress(t *testing.T) {
	srv, err := fakedevice.New(4001, 2500)
	if err != nil {
		t.Fatalf("fakedevice.New: %v", err)
	}
	defer srv.Close()

	addr, port := srv.Addr()
	c := plcclient.NewModbusClient()

	_, err = c.ReadRegister(context.Background(), addr, port, 9999)
	if err == nil {
		t.Fatal("expected protocol error for unmapped register")
	}
	if kind, ok := plcclient.KindOf(err); !ok || kind != plcclient.KindProtocolError {
		t.Fatalf("KindOf = %v, %v; want KindProtocolError", kind, ok)
	}
}

func TestWriteRegister(t *testing.T) {
	srv, err := fakedevice.New(4001, 2400)
	if err != nil {
		t.Fatalf("fakedevice.New: %v", err)
	}
	defer srv.Close()

	addr, port := srv.Addr()
	c := plcclient.NewModbusClient()

	if err := c.WriteRegister(context.Background(), addr, port, 4001, 2500); err != nil {
		t.Fatalf("WriteRegister: %v", err)
	}
	if srv.Value() != 2500 {
		t.Fatalf("server value = %d, want 2500", srv.Value())
	}
}

func TestReachable(t *testing.T) {
	srv, err := fakedevice.New(4001, 2500)
	if err != nil {
		t.Fatalf("fakedevice.New: %v", err)
	}
	defer srv.Close()

	addr, port := srv.Addr()
	c := plcclient.NewModbusClient()

	if !c.Reachable(context.Background(), addr, port) {
		t.Fatal("expected device to be reachable")
	}
	if c.Reachable(context.Background(), addr, port+1) {
		t.Fatal("expected unbound port to be unreachable")
	}
}

func TestReadRegisterUnboundPort(t *testing.T) {
	// Nothing listening on this loopback port.
	ln := mustReserveClosedPort(t)
	c := &plcclient.ModbusClient{ConnectTimeout: 50 * time.Millisecond, OperationTimeout: 50 * time.Millisecond}

	_, err := c.ReadRegister(context.Background(), "127.0.0.1", ln, 0)
	if err == nil {
		t.Fatal("expected an error against an unbound port")
	}
	var kind plcclient.ErrorKind
	if k, ok := plcclient.KindOf(err); ok {
		kind = k
	} else {
		t.Fatalf("expected a classified plcclient.Error, got %v", err)
	}
	if kind != plcclient.KindUnreachable && kind != plcclient.KindTimeout {
		t.Fatalf("KindOf = %v, want Unreachable or Timeout", kind)
	}
}

func mustReserveClosedPort(t *testing.T) int32 {
	t.Helper()
	srv, err := fakedevice.New(0, 0)
	if err != nil {
		t.Fatalf("fakedevice.New: %v", err)
	}
	_, port := srv.Addr()
	if err := srv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return port
}

func TestErrorKindString(t *testing.T) {
	if plcclient.KindUnreachable.String() != "unreachable" {
		t.Fatalf("unexpected String(): %s", plcclient.KindUnreachable.String())
	}
	wrapped := errors.New("boom")
	_, ok := plcclient.KindOf(wrapped)
	if ok {
		t.Fatal("plain error should not resolve to a classified kind")
	}
}
