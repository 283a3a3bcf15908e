package protocol

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// A1 computes the lowercase hex MD5 of "destId:realm:password".
func A1(destID, realm, password string) string {
	return md5hex(destID + ":" + realm + ":" + password)
}

// DigestResponse computes the CAS challenge response:
// MD5(MD5(destId:realm:password):nonce), uppercased.
func DigestResponse(destID, realm, password, nonce string) string {
	return strings.ToUpper(md5hex(A1(destID, realm, password) + ":" + nonce))
}

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
