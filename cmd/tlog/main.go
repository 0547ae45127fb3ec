package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rzbill/tlog"
	cfgpkg "github.com/rzbill/tlog/internal/config"
	sqlitestore "github.com/rzbill/tlog/internal/storage/sqlite"
	"github.com/rzbill/tlog/internal/topic"
	logpkg "github.com/rzbill/tlog/pkg/log"
)

func main() {
	cfg := cfgpkg.Default()
	if path := os.Getenv("TLOG_CONFIG"); path != "" {
		if fileCfg, err := cfgpkg.Load(path); err == nil {
			cfg = fileCfg
		}
	}
	cfgpkg.FromEnv(&cfg)

	logger, err := logpkg.ApplyConfig(&logpkg.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel))
	}

	rootCmd := &cobra.Command{
		Use:   "tlog",
		Short: "tlog message log CLI",
		Long:  "tlog records timestamped, typed binary messages into a durable log file.",
	}

	rootCmd.AddCommand(newCreateCmd(cfg, logger))
	rootCmd.AddCommand(newInfoCmd(cfg))
	rootCmd.AddCommand(newRecordCmd(cfg, logger))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLog(cfg cfgpkg.Config, logger logpkg.Logger) *tlog.Log {
	return tlog.New(tlog.Options{
		TransactionPeriod: time.Duration(cfg.TransactionPeriodMs) * time.Millisecond,
		SchemaPath:        cfg.SchemaPath,
		BusyTimeout:       time.Duration(cfg.BusyTimeoutMs) * time.Millisecond,
		Synchronous:       cfg.Synchronous,
		Logger:            logger,
	})
}

func newCreateCmd(cfg cfgpkg.Config, logger logpkg.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty log file with the message schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			l := newLog(cfg, logger)
			if err := l.Open(cmd.Context(), file, tlog.ReadWriteCreate); err != nil {
				return err
			}
			if err := l.Close(); err != nil {
				return err
			}
			fmt.Printf("created %s (schema %s)\n", file, sqlitestore.SchemaVersion)
			return nil
		},
	}
	cmd.Flags().String("file", "", "log file path")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newInfoCmd(cfg cfgpkg.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show topics and message counts of a log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			ctx := cmd.Context()
			db, err := sqlitestore.Open(ctx, sqlitestore.Options{
				Path:          file,
				Mode:          sqlitestore.ModeRead,
				BusyTimeoutMs: cfg.BusyTimeoutMs,
			})
			if err != nil {
				return err
			}
			defer db.Close()

			var total int64
			if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&total); err != nil {
				return err
			}
			fmt.Printf("%s: %d messages\n", file, total)

			rows, err := db.Query(ctx, `
 SELECT t.id, t.name, mt.name, COUNT(m.id)
 FROM topics t
 JOIN message_types mt ON mt.id = t.message_type_id
 LEFT JOIN messages m ON m.topic_id = t.id
 GROUP BY t.id
 ORDER BY t.name, t.id`)
			if err != nil {
				return err
			}
			defer rows.Close()
			for rows.Next() {
				var (
					id        int64
					name, typ string
					msgCount  int64
				)
				if err := rows.Scan(&id, &name, &typ, &msgCount); err != nil {
					return err
				}
				fmt.Printf("  %6d  %s [%s]  %d messages\n", id, name, typ, msgCount)
			}
			return rows.Err()
		},
	}
	cmd.Flags().String("file", "", "log file path")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newRecordCmd(cfg cfgpkg.Config, logger logpkg.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Append payloads read from stdin, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			topicName, _ := cmd.Flags().GetString("topic")
			typeName, _ := cmd.Flags().GetString("type")

			if !topic.IsValidTopic(topicName) {
				return fmt.Errorf("invalid topic name %q", topicName)
			}
			if typeName == "" {
				return fmt.Errorf("a message type name is required")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			l := newLog(cfg, logger)
			if err := l.Open(ctx, file, tlog.ReadWriteCreate); err != nil {
				return err
			}
			defer l.Close()

			var count int64
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
			for scanner.Scan() {
				if ctx.Err() != nil {
					break
				}
				payload := append([]byte(nil), scanner.Bytes()...)
				if err := l.InsertMessage(ctx, tlog.Now(), topicName, typeName, payload); err != nil {
					return err
				}
				count++
			}
			if err := scanner.Err(); err != nil {
				return err
			}
			logger.Info("recording finished",
				logpkg.Str("file", file),
				logpkg.Str("topic", topicName),
				logpkg.Str("type", typeName),
				logpkg.Int64("messages", count))
			return nil
		},
	}
	cmd.Flags().String("file", "", "log file path")
	cmd.Flags().String("topic", "", "topic name to record under")
	cmd.Flags().String("type", "", "message type name")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
