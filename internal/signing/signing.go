// Package signing holds the HMAC utilities shared by the payment
// verification flow and receipt links. Leaf package, no state.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// PaymentSignature computes the gateway callback signature over
// "<orderID>|<paymentID>" with the gateway key secret.
func PaymentSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature reports whether the supplied signature matches
// the locally computed one. Comparison is constant time.
func VerifyPaymentSignature(secret, orderID, paymentID, signature string) bool {
	expected := PaymentSignature(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ReceiptToken derives the per-transaction token that authorizes receipt
// retrieval: HMAC-SHA256 of "<transactionID>:<orderID>" truncated to 32
// hex characters.
func ReceiptToken(secret string, transactionID int64, orderID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d:%s", transactionID, orderID)))
	return hex.EncodeToString(mac.Sum(nil))[:32]
}

// VerifyReceiptToken compares a presented receipt token in constant time.
func VerifyReceiptToken(secret string, transactionID int64, orderID, token string) bool {
	expected := ReceiptToken(secret, transactionID, orderID)
	return hmac.Equal([]byte(expected), []byte(token))
}
