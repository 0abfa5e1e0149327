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

// Package config holds the construction-time constants of the transport
// layer. Values are fixed once an ingress, egress or pipeline is built;
// nothing here is runtime mutable.
package config

import (
	"github.com/BurntSushi/toml"

	"rpcwire/pkg/frame"
	"rpcwire/pkg/status"
)

var DefaultTransportConfig = TransportConfig{
	MaxPacketSize: 8192,
	MaxChannelId:  255,
	PoolCapacity:  4,
	MaxFrameSize:  512,
}

type TransportConfig struct {
	// MaxPacketSize bounds packets on both the encode and decode paths.
	MaxPacketSize int
	// MaxChannelId is the largest routable channel id; the ingress table
	// has MaxChannelId+1 entries.
	MaxChannelId int
	// PoolCapacity is the number of packet buffers in the local egress
	// pipeline's pool.
	PoolCapacity int
	// MaxFrameSize caps a single frame including its header.
	MaxFrameSize int
}

func (c *TransportConfig) SetDefaultIfNotDefined() (set bool) {
	if c.MaxPacketSize == 0 {
		set = true
		c.MaxPacketSize = DefaultTransportConfig.MaxPacketSize
	}
	if c.MaxChannelId == 0 {
		set = true
		c.MaxChannelId = DefaultTransportConfig.MaxChannelId
	}
	if c.PoolCapacity == 0 {
		set = true
		c.PoolCapacity = DefaultTransportConfig.PoolCapacity
	}
	if c.MaxFrameSize == 0 {
		set = true
		c.MaxFrameSize = DefaultTransportConfig.MaxFrameSize
	}
	return set
}

func (c *TransportConfig) Validate() error {
	if c.MaxPacketSize <= 0 || c.MaxPacketSize > frame.MaxPacketSize {
		return status.InvalidArgumentf("MaxPacketSize %d not in (0, %d]", c.MaxPacketSize, frame.MaxPacketSize)
	}
	if c.MaxFrameSize <= frame.FrameHeaderSize {
		return status.InvalidArgumentf("MaxFrameSize %d must exceed frame header size %d", c.MaxFrameSize, frame.FrameHeaderSize)
	}
	if c.MaxChannelId < 0 {
		return status.InvalidArgumentf("MaxChannelId %d is negative", c.MaxChannelId)
	}
	if c.PoolCapacity <= 0 {
		return status.InvalidArgumentf("PoolCapacity %d must be positive", c.PoolCapacity)
	}
	return nil
}

// LoadTransportConfig reads a TOML file, fills in defaults for fields the
// file leaves unset, and validates the result.
func LoadTransportConfig(file string) (*TransportConfig, error) {
	var c TransportConfig
	if _, err := toml.DecodeFile(file, &c); err != nil {
		return nil, err
	}
	c.SetDefaultIfNotDefined()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
