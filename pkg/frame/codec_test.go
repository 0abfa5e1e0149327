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

package frame

import (
	"bytes"
	"fmt"
	"testing"

	"rpcwire/pkg/status"
)

func makePacket(size int, fill byte) []byte {
	p := make([]byte, size)
	for i := range p {
		p[i] = fill
	}
	return p
}

func encodeToStream(t *testing.T, packet []byte, maxFrameSize int) []byte {
	t.Helper()
	var stream []byte
	err := EncodePacket(packet, maxFrameSize, func(f Frame) error {
		stream = append(stream, f.Header...)
		stream = append(stream, f.Payload...)
		return nil
	})
	if err != nil {
		t.Fatalf("EncodePacket(size=%d, maxFrameSize=%d): %v", len(packet), maxFrameSize, err)
	}
	return stream
}

func collectFrames(t *testing.T, packet []byte, maxFrameSize int) []Frame {
	t.Helper()
	var frames []Frame
	err := EncodePacket(packet, maxFrameSize, func(f Frame) error {
		frames = append(frames, Frame{
			Header:  append([]byte(nil), f.Header...),
			Payload: append([]byte(nil), f.Payload...),
		})
		return nil
	})
	if err != nil {
		t.Fatalf("EncodePacket: %v", err)
	}
	return frames
}

func TestEncodeSingleFrame(t *testing.T) {
	packet := makePacket(100, 0x42)
	frames := collectFrames(t, packet, 128)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	wantHeader := []byte{0xF1, 0x27, 0x64, 0x00}
	if !bytes.Equal(frames[0].Header, wantHeader) {
		t.Errorf("header = % X, want % X", frames[0].Header, wantHeader)
	}
	if !bytes.Equal(frames[0].Payload, packet) {
		t.Errorf("payload does not match packet")
	}
}

func TestEncodeMultiFrame(t *testing.T) {
	packet := makePacket(100, 0x42)
	frames := collectFrames(t, packet, 16)
	if len(frames) != 7 {
		t.Fatalf("got %d frames, want 7", len(frames))
	}
	if len(frames[0].Header) != kFrameHeaderSize {
		t.Errorf("first frame header size = %d, want %d", len(frames[0].Header), kFrameHeaderSize)
	}
	if len(frames[0].Payload) != 12 {
		t.Errorf("first frame payload size = %d, want 12", len(frames[0].Payload))
	}
	total := 0
	var reassembled []byte
	for i, f := range frames {
		if i > 0 {
			if len(f.Header) != 0 {
				t.Errorf("frame %d has a header", i)
			}
			if len(f.Payload) > 16 {
				t.Errorf("frame %d payload size %d exceeds 16", i, len(f.Payload))
			}
		}
		total += len(f.Payload)
		reassembled = append(reassembled, f.Payload...)
	}
	if total != len(packet) {
		t.Errorf("total payload = %d, want %d", total, len(packet))
	}
	if !bytes.Equal(reassembled, packet) {
		t.Errorf("reassembled payload differs from packet")
	}
}

func TestEncodePreconditions(t *testing.T) {
	called := false
	emit := func(Frame) error { called = true; return nil }

	err := EncodePacket(make([]byte, kMaxPacketSize+1), 128, emit)
	if !status.IsFailedPrecondition(err) {
		t.Errorf("oversized packet: got %v, want failed precondition", err)
	}
	err = EncodePacket(makePacket(10, 1), kFrameHeaderSize, emit)
	if !status.IsFailedPrecondition(err) {
		t.Errorf("frame size == header size: got %v, want failed precondition", err)
	}
	err = EncodePacket(makePacket(10, 1), 0, emit)
	if !status.IsFailedPrecondition(err) {
		t.Errorf("frame size 0: got %v, want failed precondition", err)
	}
	if called {
		t.Errorf("emit called despite precondition failure")
	}
}

func TestEncodeStopsOnCallbackFailure(t *testing.T) {
	wantErr := status.Unavailablef("transport closed")
	calls := 0
	err := EncodePacket(makePacket(100, 1), 16, func(Frame) error {
		calls++
		if calls == 2 {
			return wantErr
		}
		return nil
	})
	if err != wantErr {
		t.Errorf("got %v, want %v", err, wantErr)
	}
	if calls != 2 {
		t.Errorf("emit called %d times, want 2", calls)
	}
}

func TestRoundTrip(t *testing.T) {
	packetSizes := []int{0, 1, 5, 12, 13, 100, 1000, 4096}
	frameSizes := []int{5, 16, 64, 1500}
	chunkSizes := []int{1, 3, 7, 0} // 0 means the whole stream at once

	for _, ps := range packetSizes {
		for _, fs := range frameSizes {
			for _, cs := range chunkSizes {
				name := fmt.Sprintf("packet=%d/frame=%d/chunk=%d", ps, fs, cs)
				t.Run(name, func(t *testing.T) {
					packet := make([]byte, ps)
					for i := range packet {
						packet[i] = byte(i)
					}
					stream := encodeToStream(t, packet, fs)

					dec := NewDecoder(kMaxPacketSize)
					var got [][]byte
					onPacket := func(p []byte) {
						got = append(got, append([]byte(nil), p...))
					}
					if cs == 0 {
						dec.Decode(stream, onPacket)
					} else {
						for off := 0; off < len(stream); off += cs {
							end := off + cs
							if end > len(stream) {
								end = len(stream)
							}
							dec.Decode(stream[off:end], onPacket)
						}
					}
					if len(got) != 1 {
						t.Fatalf("got %d packets, want 1", len(got))
					}
					if !bytes.Equal(got[0], packet) {
						t.Errorf("decoded packet differs from original")
					}
				})
			}
		}
	}
}

func TestDecodeMultiplePacketsOneBuffer(t *testing.T) {
	a := makePacket(50, 0xAA)
	b := makePacket(7, 0xBB)
	c := makePacket(0, 0)
	stream := encodeToStream(t, a, 16)
	stream = append(stream, encodeToStream(t, b, 16)...)
	stream = append(stream, encodeToStream(t, c, 16)...)

	dec := NewDecoder(kMaxPacketSize)
	var got [][]byte
	dec.Decode(stream, func(p []byte) {
		got = append(got, append([]byte(nil), p...))
	})
	if len(got) != 3 {
		t.Fatalf("got %d packets, want 3", len(got))
	}
	if !bytes.Equal(got[0], a) || !bytes.Equal(got[1], b) || len(got[2]) != 0 {
		t.Errorf("decoded packets differ from originals")
	}
}

func TestDecodeResynchronizesAfterDroppedFrame(t *testing.T) {
	// 0xAA fill keeps A's continuation bytes from forming a valid marker.
	a := makePacket(60, 0xAA)
	b := makePacket(20, 0xBB)

	framesA := collectFrames(t, a, 16)
	if len(framesA) < 2 {
		t.Fatalf("packet A encoded into %d frames, need at least 2", len(framesA))
	}
	var stream []byte
	for _, f := range framesA[1:] { // first frame of A lost
		stream = append(stream, f.Header...)
		stream = append(stream, f.Payload...)
	}
	stream = append(stream, encodeToStream(t, b, 16)...)

	dec := NewDecoder(kMaxPacketSize)
	var got [][]byte
	dec.Decode(stream, func(p []byte) {
		got = append(got, append([]byte(nil), p...))
	})
	if len(got) != 1 {
		t.Fatalf("got %d packets, want 1 (packet A must never be delivered)", len(got))
	}
	if !bytes.Equal(got[0], b) {
		t.Errorf("recovered packet differs from packet B")
	}
}

func TestDecodeSkipsLeadingGarbage(t *testing.T) {
	packet := makePacket(30, 0xCC)
	garbage := []byte{0x00, 0xF1, 0x13, 0x99, 0x27, 0x00}
	stream := append(append([]byte(nil), garbage...), encodeToStream(t, packet, 128)...)

	dec := NewDecoder(kMaxPacketSize)
	var got [][]byte
	dec.Decode(stream, func(p []byte) {
		got = append(got, append([]byte(nil), p...))
	})
	if len(got) != 1 || !bytes.Equal(got[0], packet) {
		t.Fatalf("packet not recovered after leading garbage, got %d packets", len(got))
	}
}

func TestDecodeDiscardsOversizedPacket(t *testing.T) {
	big := makePacket(100, 0xDD)
	small := makePacket(10, 0xEE)
	stream := encodeToStream(t, big, 32)
	stream = append(stream, encodeToStream(t, small, 32)...)

	dec := NewDecoder(64) // big declares 100 > 64
	var got [][]byte
	dec.Decode(stream, func(p []byte) {
		got = append(got, append([]byte(nil), p...))
	})
	if len(got) != 1 {
		t.Fatalf("got %d packets, want 1", len(got))
	}
	if !bytes.Equal(got[0], small) {
		t.Errorf("surviving packet differs from the well-formed one")
	}
}

func TestDecodeOversizedSplitAcrossCalls(t *testing.T) {
	big := makePacket(200, 0xDD)
	small := makePacket(5, 0xEE)
	stream := encodeToStream(t, big, 64)
	stream = append(stream, encodeToStream(t, small, 64)...)

	dec := NewDecoder(64)
	var got [][]byte
	for i := 0; i < len(stream); i++ {
		dec.Decode(stream[i:i+1], func(p []byte) {
			got = append(got, append([]byte(nil), p...))
		})
	}
	if len(got) != 1 || !bytes.Equal(got[0], small) {
		t.Fatalf("oversized discard across split input failed, got %d packets", len(got))
	}
}
