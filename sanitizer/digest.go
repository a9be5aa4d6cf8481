package sanitizer

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
)

// Digest identifies a decoded buffer in logs and reports without exposing it.
type Digest struct {
	Size int
	MD5  string
	SHA1 string
}

func Fingerprint(buf []byte) Digest {
	return Digest{
		Size: len(buf),
		MD5:  MD5Hex(buf),
		SHA1: SHA1Hex(buf),
	}
}

func MD5Hex(buf []byte) string {
	sum := md5.Sum(buf)
	return hex.EncodeToString(sum[:])
}

func SHA1Hex(buf []byte) string {
	sum := sha1.Sum(buf)
	return hex.EncodeToString(sum[:])
}
