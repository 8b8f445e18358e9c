package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mitchellh/go-homedir"
	"github.com/roessland/runstreak/runalyze"
	"github.com/roessland/runstreak/streak"
	"github.com/spf13/viper"
)

func main() {
	var (
		dryRun  = flag.Bool("dry-run", false, "Show what would be written without making changes")
		dateStr = flag.String("date", "", "Day to capture (YYYY-MM-DD); default is the latest day with 2+ activities")
	)
	flag.Parse()

	// Load credentials from config file or environment
	initConfig()
	username := viper.GetString("username")
	password := viper.GetString("password")

	if username == "" || password == "" {
		home, _ := homedir.Dir()
		configPath := filepath.Join(home, ".runstreak", "runstreak.yaml")
		log.Fatalf(`Credentials not found. Either:

  Config file at %s:
    username: your_username
    password: your_password

  Or environment variables:
    export RUNSTREAK_RUNALYZE_USERNAME=your_username
    export RUNSTREAK_RUNALYZE_PASSWORD=your_password
`, configPath)
	}

	client, err := runalyze.New(runalyze.Options{})
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	if err := client.Login(username, password); err != nil {
		log.Fatalf("Failed to login: %v", err)
	}

	fetch := func(d streak.Date) []byte {
		start := d.Midnight(streak.ReferenceZone)
		end := d.AddDays(1).Midnight(streak.ReferenceZone).Add(-time.Second)
		html, err := client.GetDataBrowser(start, end)
		if err != nil {
			log.Fatalf("Failed to fetch data for %s: %v", d, err)
		}
		return html
	}

	var selectedDay streak.Date
	var selectedHTML []byte

	if *dateStr != "" {
		d, err := streak.ParseDate(*dateStr)
		if err != nil {
			log.Fatal(err)
		}
		selectedDay, selectedHTML = d, fetch(d)
	} else {
		today := streak.Today(time.Now(), streak.ReferenceZone)
		fmt.Println("Looking for a day with 2+ activities in the last 14 days...")

		for i := 0; i < 14; i++ {
			d := today.AddDays(-i)
			html := fetch(d)
			count := countActivities(html)
			fmt.Printf("  %s: %d activities\n", d, count)

			if count >= 2 {
				selectedDay, selectedHTML = d, html
				break
			}
		}

		if selectedDay.IsZero() {
			log.Fatal("No day found with 2+ activities in the last 14 days.")
		}
	}

	fixturesDir := filepath.Join("rs", "testdata", "fixtures")
	path := filepath.Join(fixturesDir, fmt.Sprintf("databrowser-%s.html", selectedDay))

	if *dryRun {
		fmt.Printf("Would create: %s (%d bytes)\n", path, len(selectedHTML))
		return
	}

	if err := os.MkdirAll(fixturesDir, 0755); err != nil {
		log.Fatalf("Failed to create fixtures directory: %v", err)
	}
	if err := os.WriteFile(path, selectedHTML, 0644); err != nil {
		log.Fatalf("Failed to write fixture %s: %v", path, err)
	}

	fmt.Printf("✅ Created fixture: %s (%d bytes)\n", path, len(selectedHTML))
}

func countActivities(html []byte) int {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return 0
	}
	return doc.Find("tr[id^='training_']").Length()
}

func initConfig() {
	home, err := homedir.Dir()
	if err != nil {
		log.Printf("Warning: Could not find home directory: %v", err)
		return
	}

	configPath := filepath.Join(home, ".runstreak", "runstreak.yaml")
	if _, err := os.Stat(configPath); err == nil {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			log.Printf("Warning: Could not read config file: %v", err)
		}
	}

	viper.BindEnv("username", "RUNSTREAK_RUNALYZE_USERNAME")
	viper.BindEnv("password", "RUNSTREAK_RUNALYZE_PASSWORD")
}
