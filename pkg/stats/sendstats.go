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

// Package stats collects operational signals from the transport layer:
// send latency histograms and drop counters. Routing failures are plain
// monotonically increasing counts, not control flow.
package stats

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

type (
	// SendStats tracks the latency and outcome of packet sends on one
	// egress. Safe for concurrent use.
	SendStats struct {
		mtx       sync.Mutex
		hist      *hdrhistogram.Histogram
		total     time.Duration
		numErrors uint64
	}

	SendStatsData struct {
		NumSends   int64
		NumErrors  uint64
		AvgLatency time.Duration
		MinLatency time.Duration
		MaxLatency time.Duration
		P50Latency time.Duration
		P95Latency time.Duration
		P99Latency time.Duration
	}
)

func NewSendStats() *SendStats {
	return &SendStats{
		hist: hdrhistogram.New(1, int64(time.Minute), 3),
	}
}

func (s *SendStats) RecordSend(tm time.Duration, err error) {
	// values outside the trackable range are clamped so every send counts
	v := int64(tm)
	if v < s.hist.LowestTrackableValue() {
		v = s.hist.LowestTrackableValue()
	} else if v > s.hist.HighestTrackableValue() {
		v = s.hist.HighestTrackableValue()
	}
	s.mtx.Lock()
	s.hist.RecordValues(v, 1)
	s.total += tm
	if err != nil {
		s.numErrors++
	}
	s.mtx.Unlock()
}

func (s *SendStats) GetStats() (stat SendStatsData) {
	s.mtx.Lock()
	stat.NumSends = s.hist.TotalCount()
	stat.NumErrors = s.numErrors
	stat.MinLatency = time.Duration(s.hist.Min())
	stat.MaxLatency = time.Duration(s.hist.Max())
	stat.P50Latency = time.Duration(s.hist.ValueAtQuantile(50.))
	stat.P95Latency = time.Duration(s.hist.ValueAtQuantile(95.))
	stat.P99Latency = time.Duration(s.hist.ValueAtQuantile(99.))
	if stat.NumSends != 0 {
		stat.AvgLatency = s.total / time.Duration(stat.NumSends)
	}
	s.mtx.Unlock()
	return stat
}
