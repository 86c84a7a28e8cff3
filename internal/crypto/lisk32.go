package crypto

import (
	"errors"
	"fmt"
	"strings"
)

// The human-readable address format: "lsk" + 32 base32 characters of address
// payload + 6 characters of BCH checksum, using the protocol's own charset.
const (
	lisk32Prefix  = "lsk"
	lisk32Charset = "zxvcpmbn3465o978uyrtkqew2adsjhfg"
	lisk32Length  = len(lisk32Prefix) + 32 + 6
)

var lisk32Generator = [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}

var ErrInvalidLisk32 = errors.New("invalid lisk32 address")

func lisk32Polymod(values []byte) uint32 {
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 == 1 {
				chk ^= lisk32Generator[i]
			}
		}
	}
	return chk
}

// bytesToGroups regroups 20 address bytes into 32 5-bit groups.
func bytesToGroups(b []byte) []byte {
	out := make([]byte, 0, 32)
	var acc, bits uint
	for _, v := range b {
		acc = acc<<8 | uint(v)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out = append(out, byte(acc>>bits)&31)
		}
	}
	return out
}

func groupsToBytes(groups []byte) []byte {
	out := make([]byte, 0, AddressLength)
	var acc, bits uint
	for _, g := range groups {
		acc = acc<<5 | uint(g)
		bits += 5
		for bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>bits))
		}
	}
	return out
}

func lisk32Checksum(groups []byte) []byte {
	padded := make([]byte, len(groups), len(groups)+6)
	copy(padded, groups)
	padded = append(padded, 0, 0, 0, 0, 0, 0)
	mod := lisk32Polymod(padded) ^ 1
	chk := make([]byte, 6)
	for i := 0; i < 6; i++ {
		chk[i] = byte(mod>>uint(5*(5-i))) & 31
	}
	return chk
}

// Lisk32Address encodes a 20-byte address into its lisk32 representation.
func Lisk32Address(address []byte) (string, error) {
	if len(address) != AddressLength {
		return "", fmt.Errorf("address must be %d bytes, got %d", AddressLength, len(address))
	}
	groups := bytesToGroups(address)
	groups = append(groups, lisk32Checksum(groups)...)

	var sb strings.Builder
	sb.WriteString(lisk32Prefix)
	for _, g := range groups {
		sb.WriteByte(lisk32Charset[g])
	}
	return sb.String(), nil
}

// AddressFromLisk32 decodes a lisk32 address back into its 20 raw bytes,
// verifying prefix, charset and checksum.
func AddressFromLisk32(address string) ([]byte, error) {
	if len(address) != lisk32Length || !strings.HasPrefix(address, lisk32Prefix) {
		return nil, ErrInvalidLisk32
	}
	groups := make([]byte, 0, 38)
	for _, c := range address[len(lisk32Prefix):] {
		idx := strings.IndexRune(lisk32Charset, c)
		if idx < 0 {
			return nil, ErrInvalidLisk32
		}
		groups = append(groups, byte(idx))
	}
	if lisk32Polymod(groups) != 1 {
		return nil, ErrInvalidLisk32
	}
	return groupsToBytes(groups[:32]), nil
}
