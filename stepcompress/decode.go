package stepcompress

import "github.com/amken3d/stepsolve/protocol"

// Message is one decoded run: count steps in direction dir, each interval
// clock ticks apart, starting at startClock.
type Message struct {
	Dir        uint8
	StartClock int64
	Interval   int64
	Count      uint32
}

// Decode reads every framed run message out of data, verifying each
// message's CRC16 trailer, and returns them with absolute clock times
// resolved from successive intervals. It is the inverse of Encoder.Flush,
// used by tests and by a host-side replay/inspection tool to verify what
// an Encoder produced without needing real MCU hardware.
func Decode(data []byte) ([]Message, error) {
	var msgs []Message
	var clock int64

	for len(data) > 0 {
		if len(data) < 1 {
			return nil, protocol.ErrBufferTooSmall
		}
		start := data
		dir := data[0]
		data = data[1:]

		interval, err := protocol.DecodeVLQInt(&data)
		if err != nil {
			return nil, err
		}
		count, err := protocol.DecodeVLQUint(&data)
		if err != nil {
			return nil, err
		}

		payloadLen := len(start) - len(data)
		payload := start[:payloadLen]
		if len(data) < 2 {
			return nil, protocol.ErrBufferTooSmall
		}
		gotCRC := uint16(data[0])<<8 | uint16(data[1])
		data = data[2:]
		if gotCRC != protocol.CRC16(payload) {
			return nil, protocol.ErrInvalidVLQ
		}

		clock += int64(interval)
		msgs = append(msgs, Message{
			Dir:        dir,
			StartClock: clock,
			Interval:   int64(interval),
			Count:      count,
		})
		// Every run advances the running clock by (count-1)*interval in
		// addition to the initial interval already applied above, matching
		// the encoder's per-step clock deltas.
		if count > 1 {
			clock += int64(interval) * int64(count-1)
		}
	}
	return msgs, nil
}
