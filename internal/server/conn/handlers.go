package conn

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/arkfall/nexus-server/internal/server/config"
	"github.com/arkfall/nexus-server/internal/server/packet"
	"github.com/arkfall/nexus-server/pkg/protocol"
)

// playerGuid is the guid the client addresses its own character by. Real
// guid allocation belongs to the world simulation, which this gateway
// hands off to.
const playerGuid uint32 = 1

var spawnPosition = protocol.Vector3{X: -3835, Y: -980.5, Z: -6050}

func (c *Connection) sendHello() error {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	return c.write(packet.ServerHello{
		AuthVersion: c.cfg.AuthVersion,
		StartupTime: uint64(time.Now().Unix()),
		Salt:        salt,
	})
}

func (c *Connection) handleAuth(m protocol.Message) error {
	hello, ok := m.(packet.ClientHelloAuth)
	if !ok {
		return fmt.Errorf("unexpected %T before auth", m)
	}

	if c.cfg.RequiredBuild != 0 && hello.Build != c.cfg.RequiredBuild {
		if err := c.write(packet.ServerAuthResult{Result: packet.AuthOutOfDateBuild}); err != nil {
			return err
		}
		return fmt.Errorf("client build %d, gateway requires %d", hello.Build, c.cfg.RequiredBuild)
	}
	if hello.Account == "" {
		if err := c.write(packet.ServerAuthResult{Result: packet.AuthDenied}); err != nil {
			return err
		}
		return fmt.Errorf("empty account name")
	}

	c.account = hello.Account
	c.log = c.log.With().Str("account", hello.Account).Logger()
	c.state = StateLobby
	c.log.Info().Uint32("build", hello.Build).Msg("authenticated")

	return c.write(packet.ServerAuthResult{Result: packet.AuthOk})
}

func (c *Connection) handleLobby(m protocol.Message) error {
	switch m := m.(type) {
	case packet.ClientRealmList:
		return c.write(realmList(c.cfg.Realms))

	case packet.ClientRealmSelect:
		realm, ok := c.cfg.Realm(m.RealmID)
		if !ok {
			return fmt.Errorf("realm %d not configured", m.RealmID)
		}
		if !realm.Online {
			return fmt.Errorf("realm %d is offline", m.RealmID)
		}
		if _, err := rand.Read(c.sessionKey[:]); err != nil {
			return fmt.Errorf("generate session key: %w", err)
		}
		redirect, err := packet.NewRealmRedirect(realm.Host, realm.Port, 0, c.sessionKey)
		if err != nil {
			return err
		}
		c.log.Info().Uint16("realm", realm.ID).Str("name", realm.Name).Msg("redirecting")
		return c.write(redirect)

	case packet.ClientCharacterList:
		return c.write(packet.ServerCharacterList{Characters: rosterFor(c.account)})

	case packet.ClientCharacterSelect:
		for _, ch := range rosterFor(c.account) {
			if ch.ID == m.CharacterID {
				c.character = ch
				c.position = spawnPosition
				c.state = StateWorld
				c.log.Info().Str("character", ch.Name).Msg("entering world")
				return c.write(packet.ServerEntityMove{
					Guid:     playerGuid,
					Position: spawnPosition,
				})
			}
		}
		return fmt.Errorf("character %d not on account", m.CharacterID)

	default:
		return fmt.Errorf("unexpected %T in lobby", m)
	}
}

func (c *Connection) handleWorld(m protocol.Message) error {
	switch m := m.(type) {
	case packet.ClientEntitySelect:
		c.targetGuid = m.Guid
		c.log.Debug().Uint32("guid", m.Guid).Msg("target selected")
		return nil

	case packet.ClientMovement:
		c.position = m.Position
		return nil

	case packet.ClientChat:
		// Relayed straight back: zone broadcast is the world simulation's
		// job, and nothing else is attached here.
		return c.write(packet.ServerChat{
			Channel: m.Channel,
			Speaker: c.character.Name,
			Message: m.Message,
		})

	default:
		return fmt.Errorf("unexpected %T in world", m)
	}
}

func realmList(entries []config.RealmEntry) packet.ServerRealmList {
	realms := make([]packet.Realm, len(entries))
	for i, e := range entries {
		realms[i] = packet.Realm{
			ID:         e.ID,
			Population: e.Population,
			Online:     e.Online,
			Name:       e.Name,
		}
	}
	return packet.ServerRealmList{Realms: realms}
}

// rosterFor returns the account's characters. Persistence is a separate
// service; until it is attached the gateway serves a fixed roster so the
// client flow can be driven end to end.
func rosterFor(account string) []packet.Character {
	return []packet.Character{
		{
			ID:    1,
			Name:  "Vess",
			Race:  4,
			Class: 7,
			Level: 50,
			Visuals: []packet.ItemVisual{
				{Slot: 1, DisplayID: 7721, ColourSet: 113, DyeData: -1},
				{Slot: 16, DisplayID: 304},
			},
		},
		{
			ID:    2,
			Name:  "Tawny",
			Sex:   1,
			Race:  13,
			Class: 2,
			Level: 12,
		},
	}
}
