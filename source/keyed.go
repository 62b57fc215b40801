/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package source

import (
	"encoding/binary"

	"golang.org/x/crypto/salsa20"
)

// keyedBlock is the number of keystream bytes generated per refill. It is a
// multiple of 8 so reads never straddle a refill.
const keyedBlock = 512

// KeyedSource is a deterministic random source backed by the Salsa20 stream
// cipher: the stream of a fixed 32-byte key is read as random data. Two
// sources with the same key and seed produce identical streams, which makes
// whole runs reproducible from a short key.
//
// KeyedSource implements rand.Source from golang.org/x/exp/rand, so it can
// drive every sampler in this module. It is a reproducibility device, not a
// cryptographic one.
type KeyedSource struct {
	key   *[32]byte
	block uint64
	buf   []byte
}

// NewKeyedSource returns a KeyedSource reading the keystream of key from
// position zero. The key is copied.
func NewKeyedSource(key *[32]byte) *KeyedSource {
	k := *key
	return &KeyedSource{key: &k}
}

// Seed repositions the stream. Distinct seeds under one key select distinct
// keystream offsets; for fully independent streams use distinct keys.
func (s *KeyedSource) Seed(seed uint64) {
	s.block = seed
	s.buf = nil
}

// Uint64 returns the next 8 bytes of the keystream as an unsigned integer.
func (s *KeyedSource) Uint64() uint64 {
	if len(s.buf) < 8 {
		s.refill()
	}
	v := binary.LittleEndian.Uint64(s.buf)
	s.buf = s.buf[8:]
	return v
}

func (s *KeyedSource) refill() {
	var nonce [8]byte
	binary.LittleEndian.PutUint64(nonce[:], s.block)
	s.block++

	in := make([]byte, keyedBlock)
	out := make([]byte, keyedBlock)
	salsa20.XORKeyStream(out, in, nonce[:], s.key)
	s.buf = out
}
