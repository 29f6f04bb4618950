package plcclient

import (
	"encoding/binary"
	"fmt"
)

// Function codes implemented by the device protocol; only these two are
// used by the core per the protocol contract.
const (
	funcReadHoldingRegisters byte = 0x03
	funcWriteSingleRegister  byte = 0x06
	exceptionBit             byte = 0x80
)

// mbapHeader is the 7-byte header that precedes every PDU on the wire:
// transaction id (2), protocol id (2, always 0), length (2, byte count of
// unit id + PDU), unit id (1).
type mbapHeader struct {
	transactionID uint16
	length        uint16
	unitID        byte
}

const mbapHeaderSize = 7
const defaultUnitID = 0x01

// encodeReadHoldingRegisters builds a request frame reading count registers
// starting at reg. Only count == 1 is exercised by the reconciler, but the
// framing itself is general.
func encodeReadHoldingRegisters(transactionID uint16, reg uint16, count uint16) []byte {
	pdu := make([]byte, 5)
	pdu[0] = funcReadHoldingRegisters
	binary.BigEndian.PutUint16(pdu[1:3], reg)
	binary.BigEndian.PutUint16(pdu[3:5], count)
	return wrapMBAP(transactionID, pdu)
}

// encodeWriteSingleRegister builds a request frame writing value to reg.
func encodeWriteSingleRegister(transactionID uint16, reg uint16, value uint16) []byte {
	pdu := make([]byte, 5)
	pdu[0] = funcWriteSingleRegister
	binary.BigEndian.PutUint16(pdu[1:3], reg)
	binary.BigEndian.PutUint16(pdu[3:5], value)
	return wrapMBAP(transactionID, pdu)
}

func wrapMBAP(transactionID uint16, pdu []byte) []byte {
	frame := make([]byte, mbapHeaderSize+len(pdu))
	binary.BigEndian.PutUint16(frame[0:2], transactionID)
	binary.BigEndian.PutUint16(frame[2:4], 0) // protocol id is always 0
	binary.BigEndian.PutUint16(frame[4:6], uint16(len(pdu)+1))
	frame[6] = defaultUnitID
	copy(frame[7:], pdu)
	return frame
}

func decodeHeader(buf []byte) (mbapHeader, error) {
	if len(buf) < mbapHeaderSize {
		return mbapHeader{}, fmt.Errorf("short header: %d bytes", len(buf))
	}
	return mbapHeader{
		transactionID: binary.BigEndian.Uint16(buf[0:2]),
		length:        binary.BigEndian.Uint16(buf[4:6]),
		unitID:        buf[6],
	}, nil
}

// decodeReadHoldingRegistersResponse extracts the single 16-bit register
// value from a read-holding-registers PDU, which still begins with its
// function code byte.
func decodeReadHoldingRegistersResponse(pdu []byte) (uint16, error) {
	if len(pdu) < 1 {
		return 0, fmt.Errorf("empty PDU")
	}
	switch pdu[0] {
	case funcReadHoldingRegisters:
		if len(pdu) < 2 {
			return 0, fmt.Errorf("missing byte count")
		}
		byteCount := int(pdu[1])
		if byteCount < 2 || len(pdu) < 2+byteCount {
			return 0, fmt.Errorf("truncated register payload")
		}
		return binary.BigEndian.Uint16(pdu[2:4]), nil
	case funcReadHoldingRegisters | exceptionBit:
		code := byte(0)
		if len(pdu) > 1 {
			code = pdu[1]
		}
		return 0, fmt.Errorf("exception response 0x%02x", code)
	default:
		return 0, fmt.Errorf("unexpected function code 0x%02x", pdu[0])
	}
}

// decodeWriteSingleRegisterResponse confirms the device echoed back the
// register/value pair we asked it to write.
func decodeWriteSingleRegisterResponse(pdu []byte, wantReg, wantValue uint16) error {
	if len(pdu) < 1 {
		return fmt.Errorf("empty PDU")
	}
	switch pdu[0] {
	case funcWriteSingleRegister:
		if len(pdu) < 5 {
			return fmt.Errorf("truncated echo")
		}
		gotReg := binary.BigEndian.Uint16(pdu[1:3])
		gotValue := binary.BigEndian.Uint16(pdu[3:5])
		if gotReg != wantReg || gotValue != wantValue {
			return fmt.Errorf("echo mismatch: got reg=%d value=%d, want reg=%d value=%d", gotReg, gotValue, wantReg, wantValue)
		}
		return nil
	case funcWriteSingleRegister | exceptionBit:
		code := byte(0)
		if len(pdu) > 1 {
			code = pdu[1]
		}
		return fmt.Errorf("exception response 0x%02x", code)
	default:
		return fmt.Errorf("unexpected function code 0x%02x", pdu[0])
	}
}
