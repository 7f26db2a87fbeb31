package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chunga2020/ac100/arch"
	"github.com/chunga2020/ac100/asmerr"
)

// ParseRegister parses a register token ("R1".."R16") into its 0-based
// internal index. Per spec §4.2, array indices are 0-based but register
// names are 1-based, so a valid token is decremented before it is
// returned.
func ParseRegister(pos Position, token string) (int, error) {
	if !strings.HasPrefix(token, arch.RegisterPrefix) {
		return 0, asmerr.RegisterNameMissingPrefix(asmPos(pos), token)
	}

	numStr := token[len(arch.RegisterPrefix):]
	num, err := strconv.Atoi(numStr)
	if err != nil || num < arch.RegisterMin || num > arch.RegisterMax {
		return 0, asmerr.InvalidRegisterName(asmPos(pos), token)
	}

	return num - 1, nil
}

// ParseRegisterIndirect parses a "[Rn]" operand, returning the inner
// register's 0-based index.
func ParseRegisterIndirect(pos Position, token string) (int, error) {
	if len(token) < 3 || token[0] != '[' || token[len(token)-1] != ']' {
		return 0, asmerr.InvalidRegisterName(asmPos(pos), token)
	}
	return ParseRegister(pos, token[1:len(token)-1])
}

// ParseInt16 parses a 16-bit integer literal per spec §4.2: 0b-prefixed
// binary, 0x-prefixed hex, or plain decimal (signed or unsigned). On
// success it returns the value's 2-byte big-endian encoding.
func ParseInt16(pos Position, token string) ([2]byte, error) {
	switch {
	case strings.HasPrefix(token, arch.BinaryPrefix):
		return parseBinary16(pos, token)
	case strings.HasPrefix(token, arch.HexPrefix):
		return parseHex16(pos, token)
	default:
		return parseDecimal16(pos, token)
	}
}

func parseBinary16(pos Position, token string) ([2]byte, error) {
	digits := token[len(arch.BinaryPrefix):]
	if digits == "" {
		return [2]byte{}, asmerr.InvalidLiteral(asmPos(pos), token, "empty binary literal")
	}
	if len(digits) > arch.WordSize {
		return [2]byte{}, asmerr.InvalidLiteral(asmPos(pos), token, "binary literal exceeds 16 bits")
	}
	var value uint64
	for _, ch := range digits {
		if ch != '0' && ch != '1' {
			return [2]byte{}, asmerr.InvalidLiteral(asmPos(pos), token, "binary literal contains a non-0/1 digit")
		}
		value = value<<1 | uint64(ch-'0')
	}
	if value > arch.UnsignedMax {
		return [2]byte{}, asmerr.InvalidLiteral(asmPos(pos), token, "binary literal out of range")
	}
	return encode16(uint16(value)), nil
}

func parseHex16(pos Position, token string) ([2]byte, error) {
	digits := token[len(arch.HexPrefix):]
	switch len(digits) {
	case 0:
		return [2]byte{}, asmerr.InvalidLiteral(asmPos(pos), token, "empty hex literal")
	case 1:
		digits = "0" + digits // a lone digit is padded with a leading zero
	case 2, 4:
		// already even-length
	default:
		return [2]byte{}, asmerr.InvalidLiteral(asmPos(pos), token, "hex literal must have 1, 2, or 4 digits")
	}
	value, err := strconv.ParseUint(digits, 16, 16)
	if err != nil {
		return [2]byte{}, asmerr.InvalidLiteral(asmPos(pos), token, "invalid hex digit")
	}
	return encode16(uint16(value)), nil
}

func parseDecimal16(pos Position, token string) ([2]byte, error) {
	value, err := strconv.Atoi(token)
	if err != nil {
		return [2]byte{}, asmerr.InvalidLiteral(asmPos(pos), token, "not a valid decimal integer")
	}
	if value < arch.SignedMin || value > arch.UnsignedMax {
		return [2]byte{}, asmerr.InvalidLiteral(asmPos(pos), token,
			fmt.Sprintf("value %d out of range [%d, %d]", value, arch.SignedMin, arch.UnsignedMax))
	}
	// Negative values are emitted as their 16-bit two's-complement
	// encoding; values in [0, 65535] are emitted as-is.
	return encode16(uint16(int32(value))), nil
}

func encode16(value uint16) [2]byte {
	return [2]byte{byte(value >> 8), byte(value)}
}

// ParseAddress parses a 16-bit address literal: exactly "0x" followed by
// 4 hex digits, per spec §4.2.
func ParseAddress(pos Position, token string) (uint16, error) {
	if !strings.HasPrefix(token, arch.HexPrefix) || len(token) != len(arch.HexPrefix)+4 {
		return 0, asmerr.InvalidAddress(asmPos(pos), token)
	}
	value, err := strconv.ParseUint(token[len(arch.HexPrefix):], 16, 16)
	if err != nil {
		return 0, asmerr.InvalidAddress(asmPos(pos), token)
	}
	return uint16(value), nil
}

func asmPos(p Position) asmerr.Position {
	return asmerr.Position{Filename: p.Filename, Line: p.Line}
}
