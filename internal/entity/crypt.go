package entity

import (
	"encoding/binary"
	"hash/fnv"
)

// Encrypted form: 4-byte magic, 4-byte big-endian seed, then the JSON form
// XORed with a linear congruential key stream.
var magic = []byte("SSEK")

const headerLen = 8

func seedFor(id string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return h.Sum32()
}

func isEncrypted(data []byte) bool {
	return len(data) >= headerLen && string(data[:4]) == string(magic)
}

func encrypt(plain []byte, seed uint32) []byte {
	out := make([]byte, headerLen+len(plain))
	copy(out, magic)
	binary.BigEndian.PutUint32(out[4:], seed)
	crypt(out[headerLen:], plain, seed)
	return out
}

func decrypt(data []byte) []byte {
	seed := binary.BigEndian.Uint32(data[4:headerLen])
	out := make([]byte, len(data)-headerLen)
	crypt(out, data[headerLen:], seed)
	return out
}

func crypt(dst, src []byte, seed uint32) {
	for i, b := range src {
		seed = seed*0x41C64E6D + 0x6073
		dst[i] = b ^ byte(seed>>16)
	}
}
