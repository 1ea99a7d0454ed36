package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"campusride/models"
	"campusride/pkg/idcard"
)

// Global DB handle for helper funcs
var db *gorm.DB

var pipeline *idcard.Pipeline

func main() {
	dir := flag.String("dir", "uploads/cards", "directory of card photos named <reg_no>.<ext>")
	watch := flag.Bool("watch", false, "keep watching the directory for new files")
	workers := flag.Int("workers", 2, "parallel verification workers")
	reverify := flag.Bool("reverify", false, "re-run verification for profiles already verified")
	dry := flag.Bool("dry-run", false, "don't write results to the DB")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	var err error
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	pipeline = idcard.NewDefault(os.Getenv("OCR_LANG"))

	files := listImageFiles(*dir)
	log.Printf("found %d card images in %s", len(files), *dir)
	runWorkerPool(*dir, *reverify, *dry, files, *workers)

	if *watch {
		if err := watchDirectory(*dir, *reverify, *dry, *workers); err != nil {
			log.Fatalf("watch: %v", err)
		}
	}
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !isSupportedExt(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func isSupportedExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}

// runWorkerPool fans the file list out to verification workers.
func runWorkerPool(dir string, reverify, dry bool, initial []string, workers int, extraCh ...<-chan string) {
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				verifySingleFile(dir, name, reverify, dry)
			}
		}()
	}
	go func() {
		for _, name := range initial {
			fileCh <- name
		}
		if len(extraCh) == 0 {
			close(fileCh)
			return
		}
		for name := range extraCh[0] {
			fileCh <- name
		}
		close(fileCh)
	}()
	wg.Wait()
}

func watchDirectory(dir string, reverify, dry bool, workers int) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	fileCh := make(chan string, 256)
	go func() {
		// simple debounce map of pending files
		pending := map[string]time.Time{}
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					close(fileCh)
					return
				}
				if ev.Op&fsnotify.Create == fsnotify.Create {
					name := filepath.Base(ev.Name)
					if !isSupportedExt(name) {
						continue
					}
					pending[name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for name, t := range pending {
					if now.Sub(t) > 300*time.Millisecond { // stable
						fileCh <- name
						delete(pending, name)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					close(fileCh)
					return
				}
				log.Printf("watch error: %v", err)
			}
		}
	}()

	runWorkerPool(dir, reverify, dry, nil, workers, fileCh)
	return nil
}

// verifySingleFile verifies one card photo against the profile whose reg no
// (or numeric id) matches the filename base, and records the attempt.
func verifySingleFile(dir, name string, reverify, dry bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	var profile models.Profile
	q := db.Where("reg_no = ?", strings.ToUpper(base))
	if err := q.First(&profile).Error; err != nil {
		if err2 := db.First(&profile, base).Error; err2 != nil {
			log.Printf("no profile for card %s", name)
			return
		}
	}
	if profile.Verified && !reverify {
		log.Printf("skip %s: profile %d already verified", name, profile.ID)
		return
	}

	full := filepath.Join(dir, name)
	imageBytes, err := os.ReadFile(full)
	if err != nil {
		log.Printf("read %s: %v", name, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	scan, err := pipeline.Extract(ctx, imageBytes)

	rec := models.Verification{
		ProfileID: profile.ID,
		FileName:  name,
		StorePath: "cards/" + name,
	}
	if err != nil {
		log.Printf("verify %s: %v", name, err)
		rec.Failed = true
		rec.FailedReason = err.Error()
		if !dry {
			db.Create(&rec)
		}
		return
	}
	rec.ExtractedName = scan.Name
	rec.RegNo = scan.RegNo
	rec.Institution = scan.Institution
	rec.Confidence = scan.Confidence
	if !scan.Valid {
		rec.Failed = true
		rec.FailedReason = scan.Reason
		if !dry {
			db.Create(&rec)
		}
		log.Printf("verify %s: %s", name, scan.Reason)
		return
	}

	m := idcard.Match(profile.FullName, scan.Name)
	rec.Similarity = m.Similarity
	rec.Matched = m.Match
	if dry {
		log.Printf("dry-run %s: profile=%d extracted=%q match=%v sim=%.2f", name, profile.ID, scan.Name, m.Match, m.Similarity)
		return
	}
	if err := db.Create(&rec).Error; err != nil {
		log.Printf("save verification for %s: %v", name, err)
		return
	}
	if m.Match && !profile.Verified {
		now := time.Now()
		profile.Verified = true
		profile.VerifiedAt = &now
		if scan.RegNo != "" && profile.RegNo == "" {
			profile.RegNo = scan.RegNo
		}
		db.Save(&profile)
	}
	log.Printf("verified %s: profile=%d extracted=%q match=%v sim=%.2f conf=%.2f", name, profile.ID, scan.Name, m.Match, m.Similarity, scan.Confidence)
}
