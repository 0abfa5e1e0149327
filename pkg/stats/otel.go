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

package stats

import (
	"context"
	"sync"

	"github.com/golang/glog"

	"go.opentelemetry.io/otel/metric/global"
	"go.opentelemetry.io/otel/metric/instrument"
	"go.opentelemetry.io/otel/metric/instrument/syncint64"
)

// OTEL bridge for the transport drop counters. Instruments are created
// lazily off the global meter provider, so a host application that never
// installs a provider pays only for a no-op Add. Exporter setup is the
// host's business.

const MeterName = "rpcwire"

type CMetric int

const (
	BadPacket CMetric = iota
	OverflowChannelId
	MissingEgress
	EgressError
	PipelineReject
)

var (
	badPacketOnce      sync.Once
	overflowOnce       sync.Once
	missingEgressOnce  sync.Once
	egressErrorOnce    sync.Once
	pipelineRejectOnce sync.Once
)

type countMetric struct {
	metricName    string
	metricDesc    string
	counter       syncint64.Counter
	createCounter *sync.Once
}

var countMetricMap = map[CMetric]*countMetric{
	BadPacket:         {"rpcwire.bad_packets", "Packets dropped because routing metadata failed to parse", nil, &badPacketOnce},
	OverflowChannelId: {"rpcwire.overflow_channel_ids", "Packets dropped because the channel id is out of range", nil, &overflowOnce},
	MissingEgress:     {"rpcwire.missing_egresses", "Packets dropped because no egress is registered for the channel", nil, &missingEgressOnce},
	EgressError:       {"rpcwire.egress_errors", "Packets dropped because the registered egress failed", nil, &egressErrorOnce},
	PipelineReject:    {"rpcwire.pipeline_rejects", "Packets rejected by the local egress pipeline for lack of a free buffer", nil, &pipelineRejectOnce},
}

// RecordCount adds one to the OTEL counter for m.
func RecordCount(m CMetric) {
	cm, ok := countMetricMap[m]
	if !ok {
		return
	}
	cm.createCounter.Do(func() {
		meter := global.Meter(MeterName)
		var err error
		cm.counter, err = meter.SyncInt64().Counter(
			cm.metricName,
			instrument.WithDescription(cm.metricDesc),
		)
		if err != nil {
			glog.Errorf("create counter %s: %v", cm.metricName, err)
		}
	})
	if cm.counter != nil {
		cm.counter.Add(context.Background(), 1)
	}
}
