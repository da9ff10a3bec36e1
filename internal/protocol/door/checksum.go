package door

import "errors"

var ErrChecksumMismatch = errors.New("checksum mismatch")

// Checksum 计算异或校验：对所有字节逐个异或
func Checksum(data []byte) byte {
	var x byte
	for _, b := range data {
		x ^= b
	}
	return x
}

// VerifyChecksum 最后一个字节为校验位，与前面所有字节的异或比较
func VerifyChecksum(frame []byte) error {
	if len(frame) < 1 {
		return errors.New("data too short for checksum verification")
	}
	pos := len(frame) - 1
	if Checksum(frame[:pos]) != frame[pos] {
		return ErrChecksumMismatch
	}
	return nil
}
