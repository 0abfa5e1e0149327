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

package router

import (
	"rpcwire/pkg/egress"
	"rpcwire/pkg/status"
)

// ServiceRouter forwards each packet to the RPC client or RPC server
// endpoint named by the packet's own destination. It is itself a packet
// processor, so it can sit behind an ingress channel or a local egress
// pipeline.
type ServiceRouter struct {
	parser IPacketMetaParser
	client egress.IPacketProcessor
	server egress.IPacketProcessor
}

func NewServiceRouter(client, server egress.IPacketProcessor) *ServiceRouter {
	return &ServiceRouter{
		parser: WireMetaParser{},
		client: client,
		server: server,
	}
}

func (r *ServiceRouter) Process(packet []byte) error {
	meta, err := r.parser.ParseMeta(packet)
	if err != nil {
		return err
	}
	var endpoint egress.IPacketProcessor
	switch meta.Destination {
	case DestinationClient:
		endpoint = r.client
	case DestinationServer:
		endpoint = r.server
	}
	if endpoint == nil {
		return status.FailedPreconditionf("no endpoint for destination %d", meta.Destination)
	}
	return endpoint.Process(packet)
}
