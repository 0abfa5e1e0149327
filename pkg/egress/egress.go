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

// Package egress sends RPC packets over a frame based transport. An
// RpcEgress owns the encode-and-send critical section that keeps one
// packet's frames from interleaving with another sender's on a shared
// transport.
package egress

import (
	"sync"
	"time"

	"rpcwire/pkg/frame"
	"rpcwire/pkg/stats"
)

type (
	// IPacketProcessor consumes whole RPC packets. It is the capability
	// registered per channel at an ingress and the downstream of the local
	// egress pipeline. The packet slice is borrowed for the duration of the
	// call.
	IPacketProcessor interface {
		Process(packet []byte) error
	}

	// IFrameSender is the transport capability an egress writes to. Frames
	// passed to SendFrame never exceed MaxTransmissionUnit bytes in total.
	IFrameSender interface {
		MaxTransmissionUnit() int
		SendFrame(f frame.Frame) error
	}
)

type RpcEgress struct {
	mtx    sync.Mutex
	sender IFrameSender
	stats  *stats.SendStats
}

func NewRpcEgress(sender IFrameSender) *RpcEgress {
	return &RpcEgress{sender: sender}
}

// NewRpcEgressWithStats also records per-send latency and outcome.
func NewRpcEgressWithStats(sender IFrameSender, st *stats.SendStats) *RpcEgress {
	return &RpcEgress{sender: sender, stats: st}
}

// Send encodes packet into frames sized to the transport's MTU and sends
// them in order. The lock is held across the whole multi-frame emission;
// SendFrame runs inline under it, which is what guarantees that frames of
// concurrent Send calls never interleave. Returns the first encode or
// transport failure.
func (e *RpcEgress) Send(packet []byte) error {
	start := time.Now()
	e.mtx.Lock()
	err := frame.EncodePacket(packet, e.sender.MaxTransmissionUnit(), e.sender.SendFrame)
	e.mtx.Unlock()
	if e.stats != nil {
		e.stats.RecordSend(time.Since(start), err)
	}
	return err
}

// Process makes an RpcEgress usable wherever a packet processor is
// expected, e.g. as a channel egress at an ingress.
func (e *RpcEgress) Process(packet []byte) error {
	return e.Send(packet)
}
