package cli

import (
	"github.com/spf13/cobra"

	"github.com/partywire/partywire/internal/model"
	"github.com/partywire/partywire/internal/protocol"
)

func newCreateCmd() *cobra.Command {
	var maxPlayers int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room and stay connected as its host",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := Dial(cfg)
			if err != nil {
				return err
			}

			req := protocol.CreateRoomRequest{
				PlayerName: cfg.Name,
			}
			if maxPlayers > 0 {
				req.MaxPlayers = maxPlayers
			}
			if err := session.Send(model.EventCreateRoom, req); err != nil {
				return err
			}

			return session.Run()
		},
	}

	cmd.Flags().IntVar(&maxPlayers, "max-players", 0, "Room capacity (default: server default)")

	return cmd
}

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room and stay connected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := Dial(cfg)
			if err != nil {
				return err
			}

			req := protocol.JoinRoomRequest{
				RoomCode:   args[0],
				PlayerName: cfg.Name,
			}
			if err := session.Send(model.EventJoinRoom, req); err != nil {
				return err
			}

			return session.Run()
		},
	}
}
