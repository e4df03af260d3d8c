package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/robfig/cron"

	"TravelSurveyAnalytics/src/config"
	"TravelSurveyAnalytics/src/datapush"
	"TravelSurveyAnalytics/src/datasource/email"
	"TravelSurveyAnalytics/src/datasource/file"
	"TravelSurveyAnalytics/src/processor"
	"TravelSurveyAnalytics/src/storage"
	"TravelSurveyAnalytics/src/utils"
)

func main() {
	jsonFolder := "./config"
	jsonFile := "config.json"
	dataJsonFile := "dataconfig.json"
	cfg, dcfg, err := config.LoadConfig(jsonFolder, jsonFile, dataJsonFile)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()

	if err := file.EnsureDir(cfg.DataDir); err != nil {
		logger.Fatal("data dir unavailable: " + err.Error())
		return
	}

	switch cfg.RunMode {
	case "watch":
		runWatch(cfg, dcfg, logger)
	case "cron":
		runCron(cfg, dcfg, logger)
	default:
		runOnce(cfg, dcfg, logger)
	}
}

// runOnce ingests any pending mailbox export, processes the tables in
// the data directory and exits.
func runOnce(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger) {
	ingestMailbox(cfg, logger)
	if err := processDataDir(cfg, dcfg, logger); err != nil {
		logger.Fatal(err.Error())
	}
}

// runWatch reprocesses whenever a table file lands in the data
// directory.
func runWatch(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger) {
	monitor, err := file.NewFileMonitor(cfg.DataDir)
	if err != nil {
		logger.Fatal("starting file monitor: " + err.Error())
		return
	}
	defer monitor.Close()

	ctx, cancel := context.WithCancel(context.Background())
	file.SetupSignalHandler(cancel)
	go func() {
		<-ctx.Done()
		monitor.Close()
	}()

	logger.Info(fmt.Sprintf("watching %s for survey tables, Ctrl+C to exit", cfg.DataDir))
	err = monitor.Watch(func(path string) {
		logger.Info("table updated: " + path)
		if err := processDataDir(cfg, dcfg, logger); err != nil {
			logger.Error(err.Error())
		}
	})
	if err != nil {
		logger.Error("file monitor stopped: " + err.Error())
	}
}

// runCron checks the mailbox and reprocesses on the configured
// interval.
func runCron(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger) {
	c := cron.New()

	interval := time.Duration(cfg.Email.CheckInterval).String()
	cronSpec := fmt.Sprintf("@every %s", interval)

	err := c.AddFunc(cronSpec, func() {
		logger.Info(fmt.Sprintf("scheduled run (interval: %v)...", interval))
		ingestMailbox(cfg, logger)
		if err := processDataDir(cfg, dcfg, logger); err != nil {
			logger.Error(err.Error())
		}
		logger.CheckRotate(cfg)
	})
	if err != nil {
		logger.Error("creating scheduled run failed: " + err.Error())
		return
	}

	c.Start()
	defer c.Stop()

	logger.Info(fmt.Sprintf("survey pipeline scheduled (interval: %v), Ctrl+C to exit", interval))
	select {}
}

// ingestMailbox pulls the newest matching export mail, if configured,
// and drops its table attachments into the data directory.
func ingestMailbox(cfg *config.Config, logger *storage.Logger) {
	if cfg.Email.Server == "" {
		return
	}

	emailClient := email.NewEmailClient(
		cfg.Email.Server,
		cfg.Email.Username,
		cfg.Email.Password)
	handler := email.NewTableAttachmentHandler(cfg.Email.TargetSubject, cfg.DataDir)

	newEmail, err := email.CheckAndProcessEmails(emailClient, cfg.Email.TargetSubject, logger)
	if err != nil {
		logger.Error("mailbox check failed: " + err.Error())
		return
	}
	if newEmail == nil {
		return
	}

	if err := handler.Handle(newEmail); err != nil {
		logger.Error(fmt.Sprintf("handling mail failed (UID:%d): %v", newEmail.UID, err))
	}
}

// processDataDir runs the full pipeline over the tables currently in
// the data directory and delivers the outputs.
func processDataDir(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger) error {
	t1 := time.Now()

	tables, err := file.LoadSurveyTables(cfg.DataDir, dcfg)
	if err != nil {
		return fmt.Errorf("loading survey tables: %w", err)
	}

	pipeline := processor.NewPipeline(dcfg, logger)
	results, err := pipeline.Run(tables)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	if err := results.Save(cfg.ProcessedDir); err != nil {
		return fmt.Errorf("saving outputs: %w", err)
	}

	reportPath := ""
	if cfg.ReportFile != "" {
		reportPath = filepath.Join(cfg.ProcessedDir, cfg.ReportFile)
		if err := utils.SaveToExcel(results.Tables["master"], reportPath); err != nil {
			logger.Error("writing report workbook failed: " + err.Error())
			reportPath = ""
		}
	}

	summary := results.Report.Summary()
	logger.Info(summary)

	if cfg.SendEmail.Server != "" {
		if err := email.SendReport(cfg, summary, reportPath); err != nil {
			logger.Error("sending report mail failed: " + err.Error())
		}
	}
	if err := datapush.PushSummary(cfg, summary); err != nil {
		logger.Error("pushing summary failed: " + err.Error())
	}

	logger.Info(fmt.Sprintf("processing time: %v", time.Since(t1)))
	return nil
}
