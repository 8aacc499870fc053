package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go-emprego-automation/internal/config"
	"go-emprego-automation/internal/runner"
)

func main() {
	var (
		skipBuild  = flag.Bool("skip-build", false, "run the existing image without rebuilding")
		unbuffered = flag.Bool("unbuffered", false, "ask the scraper to flush log output immediately")
		timeout    = flag.Duration("timeout", 2*time.Hour, "overall deadline for build plus run")
	)
	flag.Parse()

	cfg := config.Load()
	rc := cfg.Runner

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	r, err := runner.New()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer r.Close()

	if err := r.Ping(ctx); err != nil {
		log.Fatalf("❌ %v", err)
	}

	if !*skipBuild {
		spec := runner.DefaultBuildSpec(rc.BaseImage, rc.Workdir)
		if err := r.BuildImage(ctx, spec, rc.ContextDir, rc.ImageTag); err != nil {
			log.Fatalf("❌ Build failed: %v", err)
		}
	}

	exitCode, err := r.Run(ctx, runner.RunOptions{
		Image:      rc.ImageTag,
		Args:       flag.Args(),
		Env:        scraperEnv(),
		Unbuffered: *unbuffered || rc.Unbuffered,
	})
	if err != nil {
		log.Fatalf("❌ Run failed: %v", err)
	}

	if exitCode != 0 {
		log.Printf("❌ Scraper exited with code %d", exitCode)
	} else {
		log.Println("✅ Scraper finished successfully")
	}

	//the container's exit code is this process's exit code
	os.Exit(int(exitCode))
}

// scraperEnv forwards the secrets the scraper reads from its environment.
func scraperEnv() []string {
	var env []string
	for _, key := range []string{"GEMINI_API_KEY", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "DATABASE_URL"} {
		if v := os.Getenv(key); v != "" {
			env = append(env, key+"="+v)
		}
	}
	return env
}
