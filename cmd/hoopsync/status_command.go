package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortuna/hoopsync/internal/pipeline"
	"github.com/fortuna/hoopsync/internal/publisher"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the last published result of each job",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Publisher.RedisURL == "" {
				return errors.New("publisher.redis_url is not set; job results are only recorded when a publisher is configured")
			}

			pub, err := publisher.NewRedisPublisher(cmd.Context(), cfg.Publisher.RedisURL, cfg.Publisher.Stream)
			if err != nil {
				return fmt.Errorf("connect publisher: %w", err)
			}
			defer pub.Close()

			rows := make([][]string, 0, len(pipeline.AllJobs))
			for _, job := range pipeline.AllJobs {
				event, ok, err := pub.LastRefresh(cmd.Context(), string(job))
				if err != nil {
					return err
				}
				if !ok {
					rows = append(rows, []string{string(job), "never", "", "", "", ""})
					continue
				}
				detail := event.Error
				if detail == "" {
					detail = event.RunID
				}
				rows = append(rows, []string{
					string(job),
					event.Status,
					event.FinishedAt.Local().Format(time.DateTime),
					strconv.Itoa(event.Added),
					strconv.Itoa(event.Updated),
					detail,
				})
			}

			headers := []string{"Job", "Status", "Finished", "Added", "Updated", "Run / Error"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
}
