package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go-emprego-automation/internal/ai"
	"go-emprego-automation/internal/browser"
	"go-emprego-automation/internal/config"
	"go-emprego-automation/internal/database"
	"go-emprego-automation/internal/dedup"
	"go-emprego-automation/internal/filter"
	"go-emprego-automation/internal/scraper"
	"go-emprego-automation/internal/scraper/emprego"
	"go-emprego-automation/internal/scraper/mmo"
	"go-emprego-automation/internal/scraper/unjobs"
	"go-emprego-automation/internal/store"
	"go-emprego-automation/internal/telegram"
	"go-emprego-automation/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/playwright-community/playwright-go"
)

func main() {
	unbuffered := flag.Bool("unbuffered", false, "flush log output to stdout immediately")
	flag.Parse()

	if *unbuffered {
		//stdout is unbuffered and ends up in the container log stream
		log.SetOutput(os.Stdout)
	}

	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Boards: %v", boardNames(cfg))

	if cfg.Schedule != "" {
		runScheduled(cfg)
		return
	}

	if err := runOnce(cfg); err != nil {
		log.Fatalf("❌ Scrape run failed: %v", err)
	}
}

// runScheduled runs the pipeline on a cron schedule until interrupted.
func runScheduled(cfg *config.Config) {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("❌ Failed to create scheduler: %v", err)
	}

	_, err = s.NewJob(
		gocron.CronJob(cfg.Schedule, false),
		gocron.NewTask(func() {
			if err := runOnce(cfg); err != nil {
				log.Printf("❌ Scheduled scrape run failed: %v", err)
			}
		}),
		gocron.WithName("scrape-run"),
	)
	if err != nil {
		log.Fatalf("❌ Failed to schedule scrape job: %v", err)
	}

	s.Start()
	log.Printf("⏰ Daemon mode: running on schedule %q. Ctrl-C to stop.", cfg.Schedule)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("🛑 Shutting down scheduler...")
	if err := s.Shutdown(); err != nil {
		log.Printf("⚠️ Scheduler shutdown: %v", err)
	}
}

func runOnce(cfg *config.Config) error {
	//setup context with timeout = 30 mins for a full run
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	log.Println("🚀 Starting Emprego MZ scraper...")

	//init telegram bot (optional)
	var bot *telegram.Bot
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		var err error
		bot, err = telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("failed to init telegram bot: %w", err)
		}
		log.Println("🤖 Telegram bot initialized.")
	}

	//connect postgres archive (optional)
	var repo *database.Repository
	if cfg.DatabaseURL != "" {
		var err error
		repo, err = database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("⚠️ Could not connect to database, archiving disabled: %v", err)
		} else {
			defer repo.Close()
			log.Println("🗄️ Database archive connected.")
		}
	}

	//open the job store and seen-URL cache
	jobStore := store.Open(cfg.JobsDBFile, cfg.CategoriesFile, cfg.LocationsFile)
	urlCache := dedup.NewURLCache(cfg.CachePath)

	//init playwright manager
	pwManager, err := browser.NewPlaywright()
	if err != nil {
		return fmt.Errorf("failed to init playwright: %w", err)
	}
	defer pwManager.Close()

	//load cookies if present
	var cookies []playwright.OptionalCookie
	cookieFile := filepath.Join(cfg.CookiesPath, "cookies.json")
	if loaded, err := browser.LoadCookies(cookieFile); err == nil {
		log.Printf("🍪 Loaded %d cookies", len(loaded))
		cookies = loaded
	}

	//create browser context and page
	browserCtx, err := pwManager.NewContext(cfg.UserAgent, cookies)
	if err != nil {
		return err
	}
	page, err := browserCtx.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	log.Println("✅ Browser initialized successfully!")

	//init AI client
	aiClient := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)

	//known URLs = stored jobs + recently visited
	knownURLs := jobStore.ExistingURLs()
	log.Printf("🔍 %d existing jobs will be skipped", len(knownURLs))

	//run discovery per board
	var jobURLs []string
	for _, s := range buildScrapers(cfg) {
		log.Printf("▶️ Starting board: %s", s.Name())
		urls, err := s.DiscoverJobURLs(ctx, page, knownURLs)
		if err != nil {
			log.Printf("❌ Error on board %s: %v", s.Name(), err)
			continue
		}
		for _, u := range urls {
			if !urlCache.IsSeen(u) {
				jobURLs = append(jobURLs, u)
			}
		}
		log.Printf("✅ Board %s finished. %d new links so far.", s.Name(), len(jobURLs))
	}

	if len(jobURLs) == 0 {
		log.Println("ℹ️ No new job postings found.")
		return nil
	}

	if cfg.MaxJobsPerRun > 0 && len(jobURLs) > cfg.MaxJobsPerRun {
		log.Printf("✂️ Capping run at %d of %d new links", cfg.MaxJobsPerRun, len(jobURLs))
		jobURLs = jobURLs[:cfg.MaxJobsPerRun]
	}

	//phase 3: extract details with AI
	log.Printf("🧠 Phase 3: Extracting details for %d new jobs...", len(jobURLs))
	newJobs, visited := extractJobs(ctx, cfg, page, aiClient, jobStore, jobURLs)

	//only URLs with a committed outcome go in the cache, expired ones
	//included; load and extraction failures retry on the next run
	urlCache.Add(visited)

	if len(newJobs) == 0 {
		log.Println("ℹ️ No new active jobs were extracted in this run.")
		return nil
	}

	//persist
	added := jobStore.Append(newJobs)
	if err := jobStore.Save(); err != nil {
		return err
	}
	log.Printf("📦 Stored %d new active jobs", added)

	//archive to postgres
	if repo != nil {
		for _, job := range newJobs {
			if err := repo.UpsertJob(ctx, job); err != nil {
				log.Printf("⚠️ Failed to archive job %s: %v", job.SourceURL, err)
			}
		}
	}

	//save dated results file
	saveResults(newJobs)

	//report to telegram
	if bot != nil {
		for _, job := range newJobs {
			if err := bot.SendJob(job); err != nil {
				log.Printf("⚠️ Failed to send job to Telegram: %v", err)
			}
			//1 second delay to avoid 429
			time.Sleep(1 * time.Second)
		}
		statusMsg := fmt.Sprintf("✅ Scrape finished: %d new active jobs stored.", added)
		if err := bot.SendStatus(statusMsg); err != nil {
			log.Printf("⚠️ Failed to send status to Telegram: %v", err)
		}
	}

	log.Println("🏁 Execution finished.")
	return nil
}

// extractJobs visits each URL, pre-checks expiry cheaply, and runs AI
// extraction on the survivors. The second return value lists the URLs that
// reached a committed outcome, extracted or confirmed expired; URLs a
// failure or the run deadline left unresolved are not in it, so they are
// retried on the next run.
func extractJobs(ctx context.Context, cfg *config.Config, page playwright.Page, aiClient ai.Client, jobStore *store.Store, jobURLs []string) ([]scraper.Job, []string) {
	var newJobs []scraper.Job
	var visited []string
	now := time.Now()

	for i, jobURL := range jobURLs {
		if ctx.Err() != nil {
			log.Println("⚠️ Run deadline reached, stopping extraction.")
			break
		}
		log.Printf("  [%d/%d] %s", i+1, len(jobURLs), jobURL)

		if _, err := page.Goto(jobURL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(60000),
		}); err != nil {
			log.Printf("    ⚠️ Error loading page, skipping: %v", err)
			continue
		}

		html, err := page.Content()
		if err != nil {
			log.Printf("    ⚠️ Error reading page content, skipping: %v", err)
			continue
		}

		//cheap expiry pre-check saves an AI call
		if expiry := filter.ExtractExpiry(html); expiry != "" && filter.IsExpired(expiry, now) {
			log.Printf("    ⏳ Skipping expired job (%s)", expiry)
			visited = append(visited, jobURL)
			continue
		}

		job, err := aiClient.ExtractJob(ctx, html, jobURL, jobStore.Categories(), jobStore.Locations())
		if err != nil {
			log.Printf("    ❌ AI extraction failed, skipping: %v", err)
			continue
		}

		//the AI has the final say on expiry
		if filter.IsExpired(job.ExpiringDate, now) {
			log.Println("    ⏳ Skipping expired job (confirmed by AI)")
			visited = append(visited, jobURL)
			continue
		}

		newJobs = append(newJobs, *job)
		visited = append(visited, jobURL)
		log.Printf("    ✅ %s - %s", job.Title, job.Company)

		//polite delay between jobs
		utils.RandomDelay(cfg.MinDelayMs, cfg.MaxDelayMs)
	}

	return newJobs, visited
}

// buildScrapers returns the boards enabled in config, all of them when the
// list is empty.
func buildScrapers(cfg *config.Config) []scraper.Scraper {
	all := map[string]scraper.Scraper{
		"emprego": emprego.New(cfg),
		"mmo":     mmo.New(cfg),
		"unjobs":  unjobs.New(cfg),
	}

	if len(cfg.Boards) == 0 {
		return []scraper.Scraper{all["emprego"], all["mmo"], all["unjobs"]}
	}

	var scrapers []scraper.Scraper
	for _, name := range cfg.Boards {
		if s, ok := all[name]; ok {
			scrapers = append(scrapers, s)
		} else {
			log.Printf("⚠️ Unknown board %q in config, skipping", name)
		}
	}
	return scrapers
}

func boardNames(cfg *config.Config) []string {
	if len(cfg.Boards) == 0 {
		return []string{"emprego", "mmo", "unjobs"}
	}
	return cfg.Boards
}

func saveResults(jobs []scraper.Job) {
	if len(jobs) == 0 {
		return
	}

	//create logs directory if not exists
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create logs directory: %v", err)
		return
	}

	//gen filename: job-search-YYYY-MM-DD.json
	filename := fmt.Sprintf("job-search-%s.json", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(logDir, filename)

	//marshal
	data, err := json.MarshalIndent(jobs, "", " ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal jobs to JSON: %v", err)
		return
	}

	//write file
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write results file: %v", err)
		return
	}

	log.Printf("📁 Results saved to %s", filePath)
}
