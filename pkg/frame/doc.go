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

/*
Package frame implements the simple framing wire format used to carry RPC
packets over an MTU limited transport.

A packet of up to 65535 bytes is split into one or more frames. Only the
first frame of a packet carries a header; continuation frames are raw
payload bytes.

First frame

	      |0|1|2|3|4|5|6|7|0|1|2|3|4|5|6|7|0|1|2|3|4|5|6|7|0|1|2|3|4|5|6|7|
	 byte |              0|              1|              2|              3|
	------+---------------+---------------+---------------+---------------+
	    0 | marker (little endian)        | packet size (little endian)   |
	------+---------------+---------------+---------------+---------------+
	    4 | payload ...                                                   |

	marker:
	  0x27F1
	packet size:
	  total packet length in bytes, 0..65535

Continuation frames carry only payload, up to the sender's max frame size,
until packet size bytes have been transferred.

The marker doubles as a resynchronization point: a decoder that finds a bad
marker discards a single byte and retries, so after frame loss or stream
corruption it locks back on at the next well formed header.
*/
package frame
