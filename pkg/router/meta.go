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

// Package router parses the channel-routing metadata an RPC packet carries
// and forwards decoded packets to the client- or server-bound endpoint.
//
// The metadata rides at the front of the packet in protobuf wire encoding:
// field 1 is a varint packet type, field 2 a varint channel id. Parsing
// with protowire keeps the packet opaque otherwise; fields the router does
// not know are skipped.
package router

import (
	"google.golang.org/protobuf/encoding/protowire"

	"rpcwire/pkg/status"
)

type PacketType uint32

const (
	// client to server
	PacketTypeRequest      PacketType = 0
	PacketTypeClientStream PacketType = 1
	PacketTypeClientError  PacketType = 2

	// server to client
	PacketTypeResponse     PacketType = 3
	PacketTypeServerStream PacketType = 4
	PacketTypeServerError  PacketType = 5
)

type Destination int

const (
	DestinationServer Destination = iota
	DestinationClient
)

// Destination reports which endpoint packets of type t are bound for.
func (t PacketType) Destination() (dest Destination, ok bool) {
	switch t {
	case PacketTypeRequest, PacketTypeClientStream, PacketTypeClientError:
		return DestinationServer, true
	case PacketTypeResponse, PacketTypeServerStream, PacketTypeServerError:
		return DestinationClient, true
	}
	return 0, false
}

type PacketMeta struct {
	Type        PacketType
	ChannelId   uint32
	Destination Destination
}

// IPacketMetaParser extracts routing metadata from a raw packet.
type IPacketMetaParser interface {
	ParseMeta(packet []byte) (PacketMeta, error)
}

const (
	kFieldPacketType = protowire.Number(1)
	kFieldChannelId  = protowire.Number(2)
)

// ParsePacketMeta reads the packet type and channel id from the metadata
// prefix of packet. It stops at the first point where both are known, so
// the payload fields behind them are never touched.
func ParsePacketMeta(packet []byte) (meta PacketMeta, err error) {
	var haveType, haveChannel bool
	b := packet
	for len(b) > 0 && !(haveType && haveChannel) {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return meta, status.InvalidArgumentf("malformed packet metadata tag: %v", protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == kFieldPacketType && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return meta, status.InvalidArgumentf("malformed packet type: %v", protowire.ParseError(n))
			}
			meta.Type = PacketType(v)
			haveType = true
			b = b[n:]
		case num == kFieldChannelId && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return meta, status.InvalidArgumentf("malformed channel id: %v", protowire.ParseError(n))
			}
			if v > 0xFFFFFFFF {
				return meta, status.InvalidArgumentf("channel id %d does not fit in 32 bits", v)
			}
			meta.ChannelId = uint32(v)
			haveChannel = true
			b = b[n:]
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return meta, status.InvalidArgumentf("malformed field %d: %v", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	if !haveType || !haveChannel {
		return meta, status.InvalidArgumentf("packet metadata missing type or channel id")
	}
	dest, ok := meta.Type.Destination()
	if !ok {
		return meta, status.InvalidArgumentf("unknown packet type %d", meta.Type)
	}
	meta.Destination = dest
	return meta, nil
}

// AppendPacketMeta appends the wire encoding of meta to dst. The RPC layer
// uses it to stamp packets it hands to an egress; tests use it to build
// routable packets.
func AppendPacketMeta(dst []byte, packetType PacketType, channelId uint32) []byte {
	dst = protowire.AppendTag(dst, kFieldPacketType, protowire.VarintType)
	dst = protowire.AppendVarint(dst, uint64(packetType))
	dst = protowire.AppendTag(dst, kFieldChannelId, protowire.VarintType)
	dst = protowire.AppendVarint(dst, uint64(channelId))
	return dst
}

// WireMetaParser is the IPacketMetaParser for the protobuf-wire metadata
// prefix defined by this package.
type WireMetaParser struct{}

func (WireMetaParser) ParseMeta(packet []byte) (PacketMeta, error) {
	return ParsePacketMeta(packet)
}
