package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptMessage(t *testing.T) {
	t.Setenv("CHAT_SECRET", "test-chat-secret")

	const text = "Переговоры по условиям полиса"
	encrypted, err := EncryptMessage(text)
	require.NoError(t, err)
	assert.NotEqual(t, text, encrypted)

	// Один и тот же текст шифруется в разный шифртекст (случайный nonce)
	again, err := EncryptMessage(text)
	require.NoError(t, err)
	assert.NotEqual(t, encrypted, again)

	decrypted, err := DecryptMessage(encrypted)
	require.NoError(t, err)
	assert.Equal(t, text, decrypted)
}

func TestDecryptMessageRejectsGarbage(t *testing.T) {
	t.Setenv("CHAT_SECRET", "test-chat-secret")

	_, err := DecryptMessage("not-base64!!!")
	require.Error(t, err)

	_, err = DecryptMessage("AAAA")
	require.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash := HashPassword("testpass123")
	assert.Contains(t, hash, ":")

	assert.True(t, CheckPassword("testpass123", hash))
	assert.False(t, CheckPassword("wrongpass", hash))
	assert.False(t, CheckPassword("testpass123", "malformed"))

	// Соль уникальна для каждого вызова
	assert.NotEqual(t, hash, HashPassword("testpass123"))
}
