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

package util

import (
	"errors"
)

var ErrBufferTooSmall = errors.New("packet exceeds buffer capacity")

// PacketBuffer is a byte buffer whose capacity is fixed at construction.
// It never grows; a packet larger than the capacity is rejected. The zero
// size state after Reset makes a buffer reusable through a pool.
type PacketBuffer struct {
	data []byte
	size int
}

func NewPacketBuffer(capacity int) *PacketBuffer {
	return &PacketBuffer{data: make([]byte, capacity)}
}

func (b *PacketBuffer) Capacity() int {
	return len(b.data)
}

func (b *PacketBuffer) Size() int {
	return b.size
}

// Bytes returns the buffered packet. The slice aliases the buffer's backing
// array and is only valid until the next CopyFrom or Reset.
func (b *PacketBuffer) Bytes() []byte {
	return b.data[:b.size]
}

func (b *PacketBuffer) Reset() {
	b.size = 0
}

func (b *PacketBuffer) CopyFrom(packet []byte) error {
	if len(packet) > len(b.data) {
		return ErrBufferTooSmall
	}
	b.size = copy(b.data, packet)
	return nil
}
