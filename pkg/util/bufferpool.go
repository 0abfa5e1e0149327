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

// PacketBufferPool is a channel based pool of fixed-capacity packet buffers.
// Unlike a sync.Pool it never allocates on demand: when all buffers are
// in flight TryAcquire returns nil, which is the backpressure signal the
// local egress pipeline relies on. Safe for concurrent use by multiple
// producers and one consumer.
type PacketBufferPool struct {
	poolCh chan *PacketBuffer
}

func NewPacketBufferPool(count int, bufSize int) *PacketBufferPool {
	p := &PacketBufferPool{
		poolCh: make(chan *PacketBuffer, count),
	}
	for i := 0; i < count; i++ {
		p.poolCh <- NewPacketBuffer(bufSize)
	}
	return p
}

func (p *PacketBufferPool) TryAcquire() (buf *PacketBuffer) {
	select {
	case buf = <-p.poolCh:
	default:
		// all buffers in flight
	}
	return buf
}

func (p *PacketBufferPool) Release(buf *PacketBuffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	select {
	case p.poolCh <- buf:
	default:
		// not one of ours, let it be gc'ed
	}
}

func (p *PacketBufferPool) NumFree() int {
	return len(p.poolCh)
}
