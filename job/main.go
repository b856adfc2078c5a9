package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"khawam-pro/job/chore/upload_sync"
	"khawam-pro/job/email/sales_report"
)

var (
	rootCmd = &cobra.Command{
		Use:   "khawam-job",
		Short: "Khawam Pro job runner",
		Long:  `Khawam Pro job runner is a CLI tool for scheduled shop jobs: the daily sales report email and design-file sync to S3.`,
	}

	// global flags
	mysqlDSN string
	s3Bucket string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&mysqlDSN, "mysql-dsn", "", "MySQL connection string (default: root:root@tcp(127.0.0.1:3306)/khawam?charset=utf8mb4&parseTime=True&loc=Local)")
	rootCmd.PersistentFlags().StringVar(&s3Bucket, "s3-bucket", "", "S3 bucket name")

	rootCmd.AddCommand(choreCmd)
	rootCmd.AddCommand(emailCmd)

	choreCmd.AddCommand(uploadSyncCmd)
	uploadSyncCmd.Flags().StringVar(&uploadDir, "upload-dir", "uploads", "Local directory to sync")
	uploadSyncCmd.Flags().StringVar(&s3Prefix, "s3-prefix", "design-files", "Key prefix inside the bucket")

	emailCmd.AddCommand(salesReportCmd)
	salesReportCmd.Flags().StringVar(&smtpHost, "smtp-host", "", "SMTP server host")
	salesReportCmd.Flags().IntVar(&smtpPort, "smtp-port", 587, "SMTP server port")
	salesReportCmd.Flags().StringVar(&smtpUser, "smtp-user", "", "SMTP username")
	salesReportCmd.Flags().StringVar(&smtpPassword, "smtp-password", "", "SMTP password")
	salesReportCmd.Flags().StringVar(&fromEmail, "from", "", "Sender address")
	salesReportCmd.Flags().StringVar(&toEmails, "to", "", "Comma-separated recipient addresses")
	salesReportCmd.Flags().BoolVar(&syncReport, "sync-to-s3", false, "Upload the generated workbook to the S3 bucket")
}

var choreCmd = &cobra.Command{
	Use:   "chore",
	Short: "Run chore jobs",
	Long:  `Run chore jobs for file synchronization and housekeeping.`,
}

var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "Run email notification jobs",
	Long:  `Run email notification jobs for shop reports.`,
}

var (
	uploadDir string
	s3Prefix  string

	uploadSyncCmd = &cobra.Command{
		Use:   "upload-sync",
		Short: "Sync design files to S3",
		Long:  `Upload local design files to the S3 bucket, skipping objects already present with the same size.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if s3Bucket == "" {
				return fmt.Errorf("--s3-bucket is required")
			}

			s3Client, err := initS3Client()
			if err != nil {
				return fmt.Errorf("failed to initialize S3 client: %w", err)
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()

			syncer := upload_sync.NewUploadSyncer(s3Client, s3Bucket, s3Prefix, logger)
			uploaded, err := syncer.Run(cmd.Context(), uploadDir)
			if err != nil {
				return fmt.Errorf("failed to sync uploads: %w", err)
			}
			log.Printf("upload-sync done, %d file(s) uploaded", uploaded)
			return nil
		},
	}
)

var (
	smtpHost     string
	smtpPort     int
	smtpUser     string
	smtpPassword string
	fromEmail    string
	toEmails     string
	syncReport   bool

	salesReportCmd = &cobra.Command{
		Use:   "sales-report",
		Short: "Send the daily sales report email",
		Long:  `Generate the daily sales summary, email it to the shop owners and optionally upload the Excel workbook to S3.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := initDB(mysqlDSN)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			recipients := strings.Split(toEmails, ",")
			if toEmails == "" || len(recipients) == 0 {
				return fmt.Errorf("at least one recipient email is required")
			}

			sender := sales_report.NewSalesReportSender(
				db,
				smtpHost,
				smtpPort,
				smtpUser,
				smtpPassword,
				fromEmail,
				recipients,
			)
			workbookPath, err := sender.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to send sales report: %w", err)
			}

			if syncReport {
				if s3Bucket == "" {
					return fmt.Errorf("--s3-bucket is required with --sync-to-s3")
				}
				s3Client, err := initS3Client()
				if err != nil {
					return fmt.Errorf("failed to initialize S3 client: %w", err)
				}
				logger, err := zap.NewProduction()
				if err != nil {
					return err
				}
				defer logger.Sync()

				syncer := upload_sync.NewUploadSyncer(s3Client, s3Bucket, "reports", logger)
				if _, err := syncer.Run(cmd.Context(), filepath.Dir(workbookPath)); err != nil {
					return fmt.Errorf("failed to upload report: %w", err)
				}
			}
			return nil
		},
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
