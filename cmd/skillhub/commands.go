package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skillhub/internal/api"
	"github.com/vovakirdan/skillhub/internal/app"
	"github.com/vovakirdan/skillhub/internal/membership"
)

func (c *cli) loginCommand() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(client *app.Client) error {
				user, err := client.Session.Login(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				client.Session.Wait()
				fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (id %d)\n", user.DisplayName(), user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) registerCommand() *cobra.Command {
	var req api.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(client *app.Client) error {
				user, err := client.Session.Register(cmd.Context(), req)
				if err != nil {
					return err
				}
				client.Session.Wait()
				fmt.Fprintf(cmd.OutOrStdout(), "registered %s (id %d)\n", user.DisplayName(), user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.Flags().StringVar(&req.Firstname, "firstname", "", "first name")
	cmd.Flags().StringVar(&req.Lastname, "lastname", "", "last name")
	cmd.Flags().StringVar(&req.Universite, "university", "", "university")
	cmd.Flags().StringVar(&req.Bio, "bio", "", "short bio")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(client *app.Client) error {
				return client.Session.Logout(cmd.Context())
			})
		},
	}
}

func (c *cli) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(client *app.Client) error {
				out := cmd.OutOrStdout()
				user := client.Session.User()
				if user == nil {
					fmt.Fprintln(out, "not signed in")
					return nil
				}
				fmt.Fprintf(out, "%s <%s> id=%d\n", user.DisplayName(), user.Email, user.ID)
				if user.SelectedDirectionID != nil {
					fmt.Fprintf(out, "direction: %d\n", *user.SelectedDirectionID)
				}
				fmt.Fprintf(out, "rooms: %v\n", client.Session.Rooms())
				if client.Transport.Offline() {
					fmt.Fprintln(out, "(offline)")
				}
				return nil
			})
		},
	}
}

func (c *cli) profileCommand() *cobra.Command {
	var bio, university, status string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Edit and save the profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.requireSession(cmd.Context(), func(client *app.Client) error {
				var update api.UserUpdate
				if cmd.Flags().Changed("bio") {
					update.Bio = &bio
				}
				if cmd.Flags().Changed("university") {
					update.Universite = &university
				}
				if cmd.Flags().Changed("status") {
					update.Status = &status
				}
				if err := client.Session.UpdateUser(cmd.Context(), update); err != nil {
					return err
				}
				if client.Session.PendingChanges() {
					if _, err := client.Session.SaveProfile(cmd.Context()); err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), "profile saved")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&bio, "bio", "", "short bio")
	cmd.Flags().StringVar(&university, "university", "", "university")
	cmd.Flags().StringVar(&status, "status", "", "status")
	return cmd
}

func (c *cli) directionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directions",
		Short: "List directions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(client *app.Client) error {
				directions, err := client.Directions.Directions(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
				for _, d := range directions {
					fmt.Fprintf(w, "%d\t%s\t%s\n", d.ID, d.Name, d.Description)
				}
				return w.Flush()
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "select <id>",
		Short: "Select a direction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid direction id %q", args[0])
			}
			return c.requireSession(cmd.Context(), func(client *app.Client) error {
				return client.Session.SelectDirection(cmd.Context(), id)
			})
		},
	})
	return cmd
}

func (c *cli) roomsCommand() *cobra.Command {
	var directionID int64
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List rooms of a direction, or your rooms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(client *app.Client) error {
				var (
					rooms []api.Room
					err   error
				)
				switch {
				case directionID > 0:
					rooms, err = client.Rooms.RoomsByDirection(cmd.Context(), directionID)
				case client.Session.IsAuthenticated():
					rooms, err = client.Rooms.UserRooms(cmd.Context(), client.Session.User().ID)
				default:
					return fmt.Errorf("pass --direction or sign in")
				}
				if err != nil {
					return err
				}
				return printRooms(cmd.OutOrStdout(), client, rooms)
			})
		},
	}
	cmd.Flags().Int64Var(&directionID, "direction", 0, "direction id")
	cmd.AddCommand(c.createRoomCommand(), c.deleteRoomCommand())
	return cmd
}

func (c *cli) createRoomCommand() *cobra.Command {
	var in api.RoomInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.requireSession(cmd.Context(), func(client *app.Client) error {
				room, err := client.Rooms.CreateRoom(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created room %d %s\n", room.ID, room.Name)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&in.DirectionID, "direction", 0, "direction id")
	cmd.Flags().StringVar(&in.Name, "name", "", "room name")
	cmd.Flags().StringVar(&in.Description, "description", "", "room description")
	cmd.Flags().BoolVar(&in.IsPrivate, "private", false, "invite-only room")
	_ = cmd.MarkFlagRequired("direction")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (c *cli) deleteRoomCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <room-id>",
		Short: "Delete a room you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := roomArg(args)
			if err != nil {
				return err
			}
			return c.requireSession(cmd.Context(), func(client *app.Client) error {
				return client.Rooms.DeleteRoom(cmd.Context(), id)
			})
		},
	}
}

func printRooms(out io.Writer, client *app.Client, rooms []api.Room) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRIVATE\tMEMBER")
	for _, r := range rooms {
		fmt.Fprintf(w, "%d\t%s\t%t\t%t\n", r.ID, r.Name, r.IsPrivate, client.Session.IsMember(r.ID))
	}
	return w.Flush()
}

func roomArg(args []string) (int64, error) {
	return membership.ParseRoomID(args[0])
}

func (c *cli) joinCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "join <room-id>",
		Short: "Join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := roomArg(args)
			if err != nil {
				return err
			}
			return c.requireSession(cmd.Context(), func(client *app.Client) error {
				return client.Session.JoinRoom(cmd.Context(), id)
			})
		},
	}
}

func (c *cli) leaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <room-id>",
		Short: "Leave a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := roomArg(args)
			if err != nil {
				return err
			}
			return c.requireSession(cmd.Context(), func(client *app.Client) error {
				return client.Session.LeaveRoom(cmd.Context(), id)
			})
		},
	}
}

func (c *cli) membersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "members <room-id>",
		Short: "List room members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := roomArg(args)
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(client *app.Client) error {
				members, err := client.Rooms.Members(cmd.Context(), id)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "USER\tNAME\tROLE")
				for _, m := range members {
					fmt.Fprintf(w, "%d\t%s\t%s\n", m.UserID, m.Name, m.Role)
				}
				return w.Flush()
			})
		},
	}
}

func (c *cli) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Wipe local state and restore the offline dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(client *app.Client) error {
				if err := client.Session.ResetToDefaults(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "local state cleared")
				return nil
			})
		},
	}
}

func (c *cli) serveDemoCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve-demo",
		Short: "Run the demo user and room backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				c.cfg.Addr = addr
			}
			application, err := app.New(&c.cfg, c.logger)
			if err != nil {
				return err
			}
			return application.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
