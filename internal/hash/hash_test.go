package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	encoded, err := HashPassword("p@ss1234")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$"))
	require.NotContains(t, encoded, "p@ss1234")

	require.True(t, CheckPassword(encoded, "p@ss1234"))
	require.False(t, CheckPassword(encoded, "p@ss12345"))
	require.False(t, CheckPassword(encoded, ""))
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	first, err := HashPassword("same password")
	require.NoError(t, err)
	second, err := HashPassword("same password")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, CheckPassword(first, "same password"))
	require.True(t, CheckPassword(second, "same password"))
}

func TestCheckPasswordFailsClosedOnGarbage(t *testing.T) {
	for _, encoded := range []string{
		"",
		"not a hash at all",
		"$argon2id$v=19$m=65536,t=3,p=2$###$###",
		"$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$ZGlnZXN0",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$ZGlnZXN0",
		"$argon2id$v=19$m=banana,t=3,p=2$c2FsdA$ZGlnZXN0",
	} {
		require.False(t, CheckPassword(encoded, "p@ss1234"), "hash %q must not verify", encoded)
	}
}

func TestCheckPasswordHonorsEmbeddedParameters(t *testing.T) {
	// A hash recorded under different cost settings parses and is checked
	// with those settings; a wrong password is a clean non-match, not an
	// error or panic.
	encoded := "$argon2id$v=19$m=32768,t=2,p=1$" +
		"AAAAAAAAAAAAAAAAAAAAAA$" +
		"K5d9aHheBBnXGi22dSU6ty8BfBk6ucgFCv1Ao3nQuMI"
	require.False(t, CheckPassword(encoded, "definitely wrong password"))
}
