package commands

import (
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/session"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// CommandManagerParams holds the dependencies for NewCommandManager. The
// commands arrive through the Fx value group.
type CommandManagerParams struct {
	fx.In

	Session       *session.Session
	ApplicationID discord.AppID
	Logger        *zap.Logger
	Commands      []Command `group:"commands"`
}

// CommandManager registers slash commands with Discord and dispatches
// incoming interactions to them by name.
type CommandManager struct {
	session       *session.Session
	applicationID discord.AppID
	logger        *zap.Logger
	commands      map[string]Command
}

// NewCommandManager creates a CommandManager holding every provided command.
func NewCommandManager(params CommandManagerParams) *CommandManager {
	cmds := make(map[string]Command, len(params.Commands))
	for _, cmd := range params.Commands {
		cmds[cmd.Name()] = cmd
	}

	params.Logger.Info("Command manager created", zap.Int("commands", len(cmds)))

	return &CommandManager{
		session:       params.Session,
		applicationID: params.ApplicationID,
		logger:        params.Logger,
		commands:      cmds,
	}
}

// GetCommand retrieves a command by its name.
func (cm *CommandManager) GetCommand(name string) (Command, bool) {
	cmd, ok := cm.commands[name]
	return cmd, ok
}

// RegisterCommands bulk-overwrites the command set for each given guild.
func (cm *CommandManager) RegisterCommands(guildIDs []discord.GuildID) {
	cmds := make([]api.CreateCommandData, 0, len(cm.commands))
	for _, cmd := range cm.commands {
		cmds = append(cmds, api.CreateCommandData{
			Name:        cmd.Name(),
			Description: cmd.Description(),
			Options:     cmd.Options(),
		})
	}

	if len(cmds) == 0 {
		cm.logger.Info("No commands to register")
		return
	}

	for _, guildID := range guildIDs {
		registered, err := cm.session.BulkOverwriteGuildCommands(cm.applicationID, guildID, cmds)
		if err != nil {
			cm.logger.Error("Failed to bulk overwrite commands for guild",
				zap.Stringer("guild_id", guildID),
				zap.Error(err))

			continue
		}

		cm.logger.Info("Registered slash commands for guild",
			zap.Int("count", len(registered)),
			zap.Stringer("guild_id", guildID))
	}
}

// UnregisterAllCommands removes every command from the given guilds.
func (cm *CommandManager) UnregisterAllCommands(guildIDs []discord.GuildID) {
	for _, guildID := range guildIDs {
		if _, err := cm.session.BulkOverwriteGuildCommands(cm.applicationID, guildID, []api.CreateCommandData{}); err != nil {
			cm.logger.Error("Failed to unregister commands for guild",
				zap.Stringer("guild_id", guildID),
				zap.Error(err))

			continue
		}

		cm.logger.Info("Unregistered slash commands for guild",
			zap.Stringer("guild_id", guildID))
	}
}
