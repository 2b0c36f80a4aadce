// Package seeder generates synthetic Box-style access events for demos and
// pipeline smoke tests: a jittered baseline plus injectable anomaly
// patterns (bulk download, off-hour run, short burst) that the detector is
// expected to flag.
package seeder

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/naka-dai/box-access-audit/internal/models"
)

const timestampLayout = "2006-01-02T15:04:05"

// Options controls baseline generation.
type Options struct {
	Users        int
	Files        int
	Events       int
	Start        time.Time
	Spread       time.Duration
	PreviewRatio float64
}

// Generator produces synthetic access events. A fixed seed yields a
// reproducible batch.
type Generator struct {
	faker *gofakeit.Faker
	rnd   *rand.Rand
}

// New creates a Generator from the given seed.
func New(seed int64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		rnd:   rand.New(rand.NewSource(seed)),
	}
}

type identity struct {
	login string
	name  string
	ip    string
}

type fileInfo struct {
	id   string
	name string
}

// Baseline generates opts.Events accesses spread across a synthetic user
// and file population, jittered over [Start, Start+Spread].
func (g *Generator) Baseline(opts Options) []models.Event {
	users := g.identities(opts.Users)
	files := g.files(opts.Files)

	events := make([]models.Event, 0, opts.Events)
	for i := 0; i < opts.Events; i++ {
		user := users[g.rnd.Intn(len(users))]
		file := files[g.rnd.Intn(len(files))]

		eventType := models.EventTypeDownload
		if g.rnd.Float64() < opts.PreviewRatio {
			eventType = models.EventTypePreview
		}

		at := g.jitteredTime(opts.Start, opts.Spread, i, opts.Events)
		events = append(events, g.event(user, file, eventType, at))
	}
	return events
}

// BulkDownloader generates count downloads by one user across distinct
// files, spread over [start, start+spread]. Trips the volume and
// unique-files rules once count reaches their thresholds.
func (g *Generator) BulkDownloader(login, name string, count int, start time.Time, spread time.Duration) []models.Event {
	user := identity{login: login, name: name, ip: g.faker.IPv4Address()}

	events := make([]models.Event, 0, count)
	for i := 0; i < count; i++ {
		file := g.file(i)
		at := g.jitteredTime(start, spread, i, count)
		events = append(events, g.event(user, file, models.EventTypeDownload, at))
	}
	return events
}

// OffHourRun generates count downloads by one user between 22:00 and 23:59
// of the given day.
func (g *Generator) OffHourRun(login, name string, count int, day time.Time) []models.Event {
	user := identity{login: login, name: name, ip: g.faker.IPv4Address()}
	night := time.Date(day.Year(), day.Month(), day.Day(), 22, 0, 0, 0, day.Location())

	events := make([]models.Event, 0, count)
	for i := 0; i < count; i++ {
		file := g.file(i % 10)
		at := g.jitteredTime(night, 119*time.Minute, i, count)
		events = append(events, g.event(user, file, models.EventTypeDownload, at))
	}
	return events
}

// Burst generates count downloads by one user packed into [start,
// start+within], the shape the spike rule looks for.
func (g *Generator) Burst(login, name string, count int, start time.Time, within time.Duration) []models.Event {
	user := identity{login: login, name: name, ip: g.faker.IPv4Address()}

	events := make([]models.Event, 0, count)
	for i := 0; i < count; i++ {
		file := g.file(i % 5)
		at := start.Add(time.Duration(float64(within) * float64(i) / float64(count)))
		events = append(events, g.event(user, file, models.EventTypeDownload, at))
	}
	return events
}

func (g *Generator) identities(n int) []identity {
	users := make([]identity, n)
	for i := range users {
		users[i] = identity{
			login: g.faker.Username(),
			name:  g.faker.Name(),
			ip:    g.faker.IPv4Address(),
		}
	}
	return users
}

func (g *Generator) files(n int) []fileInfo {
	files := make([]fileInfo, n)
	for i := range files {
		files[i] = g.file(i)
	}
	return files
}

func (g *Generator) file(i int) fileInfo {
	return fileInfo{
		id:   uuid.New().String(),
		name: fmt.Sprintf("%s_%02d.%s", g.faker.Word(), i, g.faker.FileExtension()),
	}
}

func (g *Generator) event(user identity, file fileInfo, eventType models.EventType, at time.Time) models.Event {
	return models.Event{
		EventID:      uuid.New().String(),
		EventType:    eventType,
		UserLogin:    user.login,
		UserName:     user.name,
		FileID:       file.id,
		FileName:     file.name,
		DownloadedAt: at.Format(timestampLayout),
		SourceIP:     user.ip,
	}
}

// jitteredTime places event index within [start, start+spread] on a jittered
// grid: an even interval per event plus up to ±40% of that interval.
func (g *Generator) jitteredTime(start time.Time, spread time.Duration, index, total int) time.Time {
	if total <= 0 || spread <= 0 {
		return start
	}

	baseInterval := float64(spread) / float64(total)
	baseOffset := time.Duration(float64(index) * baseInterval)

	jitterRange := baseInterval * 0.4
	jitter := time.Duration((g.rnd.Float64()*2.0 - 1.0) * jitterRange)

	offset := baseOffset + jitter
	if offset < 0 {
		offset = 0
	}
	if offset > spread {
		offset = spread
	}

	return start.Add(offset)
}
