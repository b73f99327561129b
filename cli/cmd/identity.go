package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/takaryo1010/OneTimeChat/client/domain"
)

// loadIdentity reads the persisted room session from the config store.
func loadIdentity() domain.SessionIdentity {
	return domain.NewSessionIdentity(
		viper.GetString(sessionIDKey),
		viper.GetString(roomIDKey),
		viper.GetString(userNameKey),
		viper.GetBool(isOwnerKey),
	)
}

// saveIdentity persists the room session so later invocations (and the
// REPL) can resume it without rejoining.
func saveIdentity(id domain.SessionIdentity) error {
	viper.Set(sessionIDKey, id.SessionID)
	viper.Set(roomIDKey, id.RoomID)
	viper.Set(userNameKey, id.UserName)
	viper.Set(isOwnerKey, id.IsOwner)
	return writeConfig()
}

// clearIdentity forgets the persisted session after leaving or deleting
// the room.
func clearIdentity() error {
	viper.Set(sessionIDKey, "")
	viper.Set(roomIDKey, "")
	viper.Set(isOwnerKey, false)
	return writeConfig()
}

func writeConfig() error {
	if err := viper.WriteConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to write config: %w", err)
		}
		home, herr := os.UserHomeDir()
		if herr != nil {
			return herr
		}
		if err := viper.WriteConfigAs(filepath.Join(home, ".onetimechat.yaml")); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// requireIdentity loads the persisted session or fails with a hint.
func requireIdentity() (domain.SessionIdentity, error) {
	id := loadIdentity()
	if !id.IsValid() {
		return domain.SessionIdentity{}, fmt.Errorf("no active room session, run 'create' or 'join' first")
	}
	return id, nil
}

// roomIDFromArgsOrSession prefers an explicit room ID argument over the
// persisted session.
func roomIDFromArgsOrSession(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	id, err := requireIdentity()
	if err != nil {
		return "", err
	}
	return id.RoomID, nil
}
