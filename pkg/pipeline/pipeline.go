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

// Package pipeline moves RPC packets from arbitrary producer goroutines to
// one dedicated consumer through a bounded buffer pool. Backpressure is
// strict and non-blocking: when the pool is empty SendRpcPacket fails with
// ResourceExhausted instead of queuing unboundedly.
package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"rpcwire/pkg/config"
	"rpcwire/pkg/egress"
	"rpcwire/pkg/stats"
	"rpcwire/pkg/status"
	"rpcwire/pkg/util"
)

// IPacketBufferPool is the pool capability the pipeline draws packet slots
// from. TryAcquire returns nil when every buffer is in flight; Release
// makes a buffer available again. Implementations must be safe for
// concurrent producers and one consumer. util.PacketBufferPool is the
// default implementation.
type IPacketBufferPool interface {
	TryAcquire() *util.PacketBuffer
	Release(buf *util.PacketBuffer)
}

// LocalRpcEgress hands packets to a registered processor on its own
// consumer goroutine. One instance drives one consumer; Stop is
// irreversible.
type LocalRpcEgress struct {
	pool          IPacketBufferPool
	queue         chan *util.PacketBuffer
	maxPacketSize int

	processor egress.IPacketProcessor
	stopped   int32 // atomic

	doneCh    chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
	sendWg    sync.WaitGroup
}

// NewLocalRpcEgress sizes the to-be-processed queue to the pool capacity,
// so enqueueing a successfully acquired buffer can never block.
func NewLocalRpcEgress(conf *config.TransportConfig, pool IPacketBufferPool) (*LocalRpcEgress, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, status.InvalidArgumentf("nil packet buffer pool")
	}
	return &LocalRpcEgress{
		pool:          pool,
		queue:         make(chan *util.PacketBuffer, conf.PoolCapacity),
		maxPacketSize: conf.MaxPacketSize,
		doneCh:        make(chan struct{}),
	}, nil
}

// RegisterPacketProcessor sets the downstream processor. Must be called
// before Start; packets are rejected until a processor is registered.
func (lp *LocalRpcEgress) RegisterPacketProcessor(p egress.IPacketProcessor) {
	lp.processor = p
}

// Start launches the consumer goroutine. Safe to call once; later calls
// are no-ops.
func (lp *LocalRpcEgress) Start() {
	lp.startOnce.Do(func() {
		lp.wg.Add(1)
		go lp.processLoop()
	})
}

// SendRpcPacket copies packet into a pool buffer and queues it for the
// consumer. It never blocks. Failures:
//
//	FailedPrecondition - no processor registered, or the pipeline stopped
//	InvalidArgument    - packet larger than the configured max
//	ResourceExhausted  - no free buffer; the caller's backpressure signal
//	DataLoss           - Stop raced in after the packet was queued; the
//	                     packet is still drained and delivered
func (lp *LocalRpcEgress) SendRpcPacket(packet []byte) error {
	// Stop waits for in-flight sends before its final drain, so a packet
	// queued by a send that lost the race is still delivered and its
	// buffer returned.
	lp.sendWg.Add(1)
	defer lp.sendWg.Done()

	if lp.processor == nil {
		return status.FailedPreconditionf("no packet processor registered")
	}
	if atomic.LoadInt32(&lp.stopped) != 0 {
		return status.FailedPreconditionf("local egress stopped")
	}
	if len(packet) > lp.maxPacketSize {
		return status.InvalidArgumentf("packet size %d exceeds max %d", len(packet), lp.maxPacketSize)
	}
	buf := lp.pool.TryAcquire()
	if buf == nil {
		stats.RecordCount(stats.PipelineReject)
		return status.ResourceExhaustedf("no free packet buffer")
	}
	if err := buf.CopyFrom(packet); err != nil {
		lp.pool.Release(buf)
		return status.InvalidArgumentf("packet size %d exceeds buffer capacity %d", len(packet), buf.Capacity())
	}
	lp.queue <- buf
	if atomic.LoadInt32(&lp.stopped) != 0 {
		// Observed source behavior, kept on purpose: the packet is queued
		// and will still be delivered during the drain, but the caller is
		// told the pipeline shut down underneath it.
		return status.DataLossf("pipeline stopped while packet was queued")
	}
	return nil
}

// Process lets the pipeline stand in wherever a packet processor is
// expected, e.g. as a channel egress at an ingress.
func (lp *LocalRpcEgress) Process(packet []byte) error {
	return lp.SendRpcPacket(packet)
}

// Stop rejects new work, wakes the consumer, and returns once the queue is
// drained and the consumer goroutine has exited. Sends that were already
// past the stopped check are waited out, then their packets drained, so
// nothing an accepted send queued is ever stranded. Irreversible.
func (lp *LocalRpcEgress) Stop() {
	lp.stopOnce.Do(func() {
		atomic.StoreInt32(&lp.stopped, 1)
		close(lp.doneCh)
		lp.wg.Wait()
		lp.sendWg.Wait()
		// catch buffers queued between the consumer's final drain and here
		lp.drain()
	})
}

func (lp *LocalRpcEgress) processLoop() {
	defer lp.wg.Done()
	glog.V(1).Infof("local egress consumer started")
	for {
		select {
		case buf := <-lp.queue:
			lp.processOne(buf)
		case <-lp.doneCh:
			lp.drain()
			glog.V(1).Infof("local egress consumer exiting")
			return
		}
	}
}

func (lp *LocalRpcEgress) drain() {
	for {
		select {
		case buf := <-lp.queue:
			lp.processOne(buf)
		default:
			return
		}
	}
}

func (lp *LocalRpcEgress) processOne(buf *util.PacketBuffer) {
	// processor errors are logged, not fatal; the consumer must keep going
	if err := lp.processor.Process(buf.Bytes()); err != nil {
		glog.Errorf("packet processor failed: %v", err)
	}
	lp.pool.Release(buf)
}
