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

// Package ingress turns raw inbound transport bytes back into RPC packets
// and routes each to the egress registered for its channel. Hostile or
// corrupted input never stops the receive loop: every per-packet failure is
// accounted in a counter and the loop moves on.
package ingress

import (
	"github.com/golang/glog"

	"rpcwire/pkg/config"
	"rpcwire/pkg/egress"
	"rpcwire/pkg/frame"
	"rpcwire/pkg/router"
	"rpcwire/pkg/stats"
	"rpcwire/pkg/status"
	"rpcwire/pkg/util"
)

// ChannelEgress binds a channel id to the packet processor that receives
// packets decoded for that channel.
type ChannelEgress struct {
	Id     uint32
	Egress egress.IPacketProcessor
}

// IngressCounters is a point-in-time snapshot of the drop counters.
type IngressCounters struct {
	BadPackets         uint64
	OverflowChannelIds uint64
	MissingEgresses    uint64
	EgressErrors       uint64
}

// RpcIngress demultiplexes decoded packets onto per-channel egresses. The
// channel table is fixed at construction. ProcessIncomingData must be
// driven from a single receive goroutine; the decoder state is confined to
// that path.
type RpcIngress struct {
	decoder      *frame.Decoder
	parser       router.IPacketMetaParser
	table        []egress.IPacketProcessor
	maxChannelId uint32

	badPackets         util.AtomicUint64Counter
	overflowChannelIds util.AtomicUint64Counter
	missingEgresses    util.AtomicUint64Counter
	egressErrors       util.AtomicUint64Counter
}

func NewRpcIngress(conf *config.TransportConfig, parser router.IPacketMetaParser, egresses []ChannelEgress) (*RpcIngress, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if parser == nil {
		return nil, status.InvalidArgumentf("nil packet meta parser")
	}
	in := &RpcIngress{
		decoder:      frame.NewDecoder(conf.MaxPacketSize),
		parser:       parser,
		table:        make([]egress.IPacketProcessor, conf.MaxChannelId+1),
		maxChannelId: uint32(conf.MaxChannelId),
	}
	for _, ce := range egresses {
		if ce.Egress == nil {
			return nil, status.InvalidArgumentf("nil egress for channel %d", ce.Id)
		}
		if ce.Id > in.maxChannelId {
			return nil, status.InvalidArgumentf("channel id %d exceeds max %d", ce.Id, in.maxChannelId)
		}
		if in.table[ce.Id] != nil {
			return nil, status.InvalidArgumentf("duplicate egress for channel %d", ce.Id)
		}
		in.table[ce.Id] = ce.Egress
	}
	return in, nil
}

// ProcessIncomingData feeds data through the decoder and routes every
// completed packet. It never blocks and never fails on malformed input;
// per-packet routing failures only move counters. Not safe for concurrent
// calls on the same instance.
func (in *RpcIngress) ProcessIncomingData(data []byte) error {
	in.decoder.Decode(data, in.routePacket)
	return nil
}

func (in *RpcIngress) routePacket(packet []byte) {
	meta, err := in.parser.ParseMeta(packet)
	if err != nil {
		in.badPackets.Add(1)
		stats.RecordCount(stats.BadPacket)
		glog.V(1).Infof("dropping unroutable packet: %v", err)
		return
	}
	if meta.ChannelId > in.maxChannelId {
		in.overflowChannelIds.Add(1)
		stats.RecordCount(stats.OverflowChannelId)
		glog.V(1).Infof("dropping packet for out-of-range channel %d", meta.ChannelId)
		return
	}
	p := in.table[meta.ChannelId]
	if p == nil {
		in.missingEgresses.Add(1)
		stats.RecordCount(stats.MissingEgress)
		glog.V(1).Infof("dropping packet for channel %d: no egress registered", meta.ChannelId)
		return
	}
	if err := p.Process(packet); err != nil {
		in.egressErrors.Add(1)
		stats.RecordCount(stats.EgressError)
		glog.V(1).Infof("egress for channel %d failed: %v", meta.ChannelId, err)
	}
}

func (in *RpcIngress) Counters() IngressCounters {
	return IngressCounters{
		BadPackets:         in.badPackets.Get(),
		OverflowChannelIds: in.overflowChannelIds.Get(),
		MissingEgresses:    in.missingEgresses.Get(),
		EgressErrors:       in.egressErrors.Get(),
	}
}
