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
	"encoding/binary"
)

const (
	kFrameMarker     uint16 = 0x27F1
	kFrameHeaderSize        = 4
	kMaxPacketSize          = 65535
)

// Exported wire limits, for collaborators that validate configuration
// against the framing format.
const (
	FrameHeaderSize = kFrameHeaderSize
	MaxPacketSize   = kMaxPacketSize
)

var wireByteOrder = binary.LittleEndian

// Frame is one on-wire transmission unit. Header is empty for every frame
// of a packet but the first. Both slices alias caller owned memory and are
// only valid for the duration of the callback they are passed to.
type Frame struct {
	Header  []byte
	Payload []byte
}

type (
	// FrameCallback receives encoded frames in transmission order. A non-nil
	// return aborts the encode.
	FrameCallback func(f Frame) error

	// PacketCallback receives each fully reassembled packet. The packet
	// slice may alias the decoder's internal buffer or the decode input and
	// is reused after the callback returns; keeping it requires a copy.
	PacketCallback func(packet []byte)
)
