package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrNoRedis is returned by fund without a redis.addr, the in-memory bank only lives inside serve.
var ErrNoRedis = errors.New("fund requires redis.addr")

func newFundCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "fund ACCOUNT AMOUNT",
		Short: "Credit an account in the Redis bank",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if cfg.Redis.Addr == "" {
				return ErrNoRedis
			}

			grants, err := parseFunding(map[string]string{args[0]: args[1]})
			if err != nil {
				return err
			}

			bank, closeBank, err := openBank(cfg.Redis, logger)
			defer closeBank()
			if err != nil {
				return err
			}

			if err = bank.Fund(cmd.Context(), args[0], grants[args[0]]); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "funded %s with %s\n", args[0], grants[args[0]].String())

			return err
		},
	}
}
