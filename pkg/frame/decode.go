//
//  Copyright 2026 The rpcwire Authors
//
//  Licensed to the Apache Software Foundation (ASF) under one or more
//  contributor license agreements.  See the NOTICE file distributed with
//  this work for additional information regarding copyright ownership.
//  The ASF licenses this file to You under the Apache License, Version 2.0
//  (the "License"); you may not use this file except in compliance with
//  the License.  You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

package frame

import (
	"github.com/golang/glog"
)

type decodePhase int

const (
	kReadingHeader decodePhase = iota
	kReadingPayload
)

// Decoder reassembles packets from a stream of framed bytes. One Decoder
// serves one physical receive path; its state survives across Decode calls
// because a packet's frames may arrive split at arbitrary byte boundaries.
// Not safe for concurrent use.
type Decoder struct {
	phase         decodePhase
	header        [kFrameHeaderSize]byte
	headerLen     int
	buf           []byte
	bufLen        int
	remaining     int
	discard       bool
	desyncLogged  bool
	maxPacketSize int
}

// NewDecoder returns a Decoder that buffers packets of up to maxPacketSize
// bytes. A packet declaring a larger size is consumed from the stream but
// never delivered, protecting against a size mismatch with the sender.
// maxPacketSize is clamped to the wire format limit.
func NewDecoder(maxPacketSize int) *Decoder {
	if maxPacketSize <= 0 || maxPacketSize > kMaxPacketSize {
		maxPacketSize = kMaxPacketSize
	}
	return &Decoder{
		buf:           make([]byte, maxPacketSize),
		maxPacketSize: maxPacketSize,
	}
}

// Decode consumes all of in, invoking onPacket once per completed packet.
// Malformed input never fails the decode; a bad marker discards one byte at
// a time until the stream resynchronizes on the next valid header, so a
// corrupted packet cannot prevent recovery of later well formed ones.
func (d *Decoder) Decode(in []byte, onPacket PacketCallback) {
	for len(in) > 0 {
		switch d.phase {
		case kReadingHeader:
			in = d.readHeader(in, onPacket)
		case kReadingPayload:
			in = d.readPayload(in, onPacket)
		}
	}
}

func (d *Decoder) readHeader(in []byte, onPacket PacketCallback) []byte {
	n := copy(d.header[d.headerLen:], in)
	d.headerLen += n
	in = in[n:]

	for d.headerLen == kFrameHeaderSize {
		if marker := wireByteOrder.Uint16(d.header[0:2]); marker != kFrameMarker {
			if !d.desyncLogged {
				glog.Warningf("framing desync: marker %#04x, resynchronizing", marker)
				d.desyncLogged = true
			}
			// Drop exactly one byte; a shifted marker must still be found.
			copy(d.header[0:], d.header[1:])
			d.headerLen = kFrameHeaderSize - 1
			if len(in) == 0 {
				return in
			}
			d.header[kFrameHeaderSize-1] = in[0]
			d.headerLen++
			in = in[1:]
			continue
		}

		d.desyncLogged = false
		size := int(wireByteOrder.Uint16(d.header[2:4]))
		d.headerLen = 0
		d.bufLen = 0
		d.remaining = size
		d.discard = size > d.maxPacketSize
		if d.discard {
			glog.Warningf("declared packet size %d exceeds decoder max %d, discarding", size, d.maxPacketSize)
		}
		if size == 0 {
			onPacket(d.buf[:0])
			return in
		}
		d.phase = kReadingPayload
		return in
	}
	return in
}

func (d *Decoder) readPayload(in []byte, onPacket PacketCallback) []byte {
	n := d.remaining
	if n > len(in) {
		n = len(in)
	}
	switch {
	case d.discard:
		// counted but not retained
	case d.bufLen == 0 && n == d.remaining:
		// whole payload in the current input, nothing buffered yet:
		// deliver a view of the input without copying
		onPacket(in[:n])
	default:
		copy(d.buf[d.bufLen:], in[:n])
		d.bufLen += n
		if n == d.remaining {
			onPacket(d.buf[:d.bufLen])
		}
	}
	d.remaining -= n
	if d.remaining == 0 {
		d.phase = kReadingHeader
		d.bufLen = 0
	}
	return in[n:]
}
