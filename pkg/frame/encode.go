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
	"rpcwire/pkg/status"
)

// EncodePacket splits packet into frames of at most maxFrameSize bytes and
// hands each to emit, synchronously and in order. The first frame carries
// the 4-byte header and min(maxFrameSize-4, len(packet)) payload bytes;
// every later frame carries up to maxFrameSize payload bytes and no header.
//
// Fails with FailedPrecondition, emitting nothing, if the packet exceeds
// MaxPacketSize or maxFrameSize leaves no room for payload after the
// header. If emit fails, encoding stops and the error is returned; frames
// already emitted are not retracted.
func EncodePacket(packet []byte, maxFrameSize int, emit FrameCallback) error {
	if len(packet) > kMaxPacketSize {
		return status.FailedPreconditionf("packet size %d exceeds max %d", len(packet), kMaxPacketSize)
	}
	if maxFrameSize <= kFrameHeaderSize {
		return status.FailedPreconditionf("max frame size %d too small for %d-byte header", maxFrameSize, kFrameHeaderSize)
	}

	var header [kFrameHeaderSize]byte
	wireByteOrder.PutUint16(header[0:2], kFrameMarker)
	wireByteOrder.PutUint16(header[2:4], uint16(len(packet)))

	first := len(packet)
	if max := maxFrameSize - kFrameHeaderSize; first > max {
		first = max
	}
	if err := emit(Frame{Header: header[:], Payload: packet[:first]}); err != nil {
		return err
	}
	for off := first; off < len(packet); {
		n := len(packet) - off
		if n > maxFrameSize {
			n = maxFrameSize
		}
		if err := emit(Frame{Payload: packet[off : off+n]}); err != nil {
			return err
		}
		off += n
	}
	return nil
}
