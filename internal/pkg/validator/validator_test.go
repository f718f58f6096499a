package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidIFSC(t *testing.T) {
	assert.True(t, IsValidIFSC("HDFC0001234"))
	assert.True(t, IsValidIFSC("sbin0005943"))
	assert.False(t, IsValidIFSC("HDFC1001234"))
	assert.False(t, IsValidIFSC("HDFC000123"))
	assert.False(t, IsValidIFSC(""))
}

func TestIsValidPAN(t *testing.T) {
	assert.True(t, IsValidPAN("ABCDE1234F"))
	assert.True(t, IsValidPAN("abcde1234f"))
	assert.False(t, IsValidPAN("ABCD1234F"))
	assert.False(t, IsValidPAN("ABCDE12345"))
}

func TestIsValidUAN(t *testing.T) {
	assert.True(t, IsValidUAN("100234567890"))
	assert.False(t, IsValidUAN("10023456789"))
	assert.False(t, IsValidUAN("10023456789a"))
}

func TestIsValidBankAccount(t *testing.T) {
	assert.True(t, IsValidBankAccount("123456789"))
	assert.True(t, IsValidBankAccount("123456789012345678"))
	assert.False(t, IsValidBankAccount("12345678"))
	assert.False(t, IsValidBankAccount("12345678901234567890"))
	assert.False(t, IsValidBankAccount("12345678x"))
}
