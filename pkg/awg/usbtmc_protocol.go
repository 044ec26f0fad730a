package awg

import (
	"encoding/binary"
	"fmt"
)

// USBTMC message IDs (USBTMC 1.0, table 2)
const (
	MsgDevDepOut       = 0x01
	MsgRequestDevDepIn = 0x02
	MsgDevDepIn        = 0x02
)

// Transfer attribute flags
const (
	TMCAttrEOM = 0x01 // last transfer of the message
)

// TMCHeaderSize is the size of every USBTMC bulk transfer header.
const TMCHeaderSize = 12

// EncodeDevDepMsgOut frames a device-dependent command message. The payload
// is padded to a four byte boundary as the class requires.
func EncodeDevDepMsgOut(tag byte, payload []byte) []byte {
	padded := (len(payload) + 3) &^ 3
	buf := make([]byte, TMCHeaderSize+padded)
	buf[0] = MsgDevDepOut
	buf[1] = tag
	buf[2] = ^tag
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(payload)))
	buf[8] = TMCAttrEOM
	copy(buf[TMCHeaderSize:], payload)
	return buf
}

// EncodeRequestDevDepMsgIn asks the instrument to send up to size bytes of
// response data.
func EncodeRequestDevDepMsgIn(tag byte, size int) []byte {
	buf := make([]byte, TMCHeaderSize)
	buf[0] = MsgRequestDevDepIn
	buf[1] = tag
	buf[2] = ^tag
	binary.LittleEndian.PutUint32(buf[4:8], uint32(size))
	return buf
}

// DecodeDevDepMsgIn validates a response header against the request tag and
// returns the transfer size and whether this is the final transfer.
func DecodeDevDepMsgIn(header []byte, tag byte) (size int, eom bool, err error) {
	if len(header) < TMCHeaderSize {
		return 0, false, fmt.Errorf("response header too short (%d bytes)", len(header))
	}
	if header[0] != MsgDevDepIn {
		return 0, false, fmt.Errorf("invalid message ID: 0x%02X", header[0])
	}
	if header[1] != tag {
		return 0, false, fmt.Errorf("tag mismatch: sent 0x%02X, got 0x%02X", tag, header[1])
	}
	size = int(binary.LittleEndian.Uint32(header[4:8]))
	eom = header[8]&TMCAttrEOM != 0
	return size, eom, nil
}
