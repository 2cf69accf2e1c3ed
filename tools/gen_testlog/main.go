// gen_testlog generates synthetic item-charge bridge logs for testing.
//
// Each file is one simulated play session: the player equips tracked items
// and the generator emits the chat, dialog, tick, graphic and equipment lines
// the bridge would write while the charges run down. With --live the session
// is appended to a single file in real time, which is handy for watching the
// HUD react.
//
// Usage:
//
//	go run ./tools/gen_testlog [flags]
//
// Flags:
//
//	--output-dir  where to write generated files (default: "./testdata/generated")
//	--count       number of files to generate (default: 10)
//	--events      activity steps per session (default: 400)
//	--seed        random seed; 0 = use current time (default: 0)
//	--start-date  base date for generated timestamps, YYYY-MM-DD (default: 2026-01-01)
//	--live        append one session to --output-dir in real time
//	--interval    delay between live steps (default: 600ms)
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const timeLayout = "2006.01.02 15:04:05"

// Item identities used by the simulation.
const (
	idDodgy       = 21143
	idSlaughter   = 21183
	idExpeditious = 21177
	idBinding     = 5521
	idRecoil      = 2550
	idChronicle   = 13660
	idXeric       = 13393
	xericGraphic  = 1612
)

// gamesNecklaces maps remaining charges to the games necklace identity.
var gamesNecklaces = map[int]int{8: 3853, 7: 3855, 6: 3857, 5: 3859, 4: 3861, 3: 3863, 2: 3865, 1: 3867}

// ─────────────────────────────────────────────────────────────────────────────
// Session model
// ─────────────────────────────────────────────────────────────────────────────

// session tracks what the simulated player wears and what the items hold, so
// every emitted message is consistent with the previous ones.
type session struct {
	rng  *rand.Rand
	w    *bufio.Writer
	t    time.Time
	tick int

	equipment map[string]int
	dodgy     int
	slaughter int
	binding   int
	chronicle int
	games     int
	xeric     int
}

func newSession(w io.Writer, start time.Time, rng *rand.Rand) *session {
	return &session{
		rng:       rng,
		w:         bufio.NewWriter(w),
		t:         start,
		tick:      1000 + rng.Intn(5000),
		equipment: map[string]int{},
		dodgy:     10,
		slaughter: 30,
		binding:   16,
		chronicle: 200 + rng.Intn(800),
		games:     8,
		xeric:     20 + rng.Intn(60),
	}
}

func (s *session) line(kind, payload string) {
	fmt.Fprintf(s.w, "%s %s - %s\n", s.t.Format(timeLayout), kind, payload)
}

func (s *session) chat(text string) {
	s.line("Chat", "GAMEMESSAGE - "+text)
}

func (s *session) advance() {
	s.tick++
	s.t = s.t.Add(600 * time.Millisecond)
	s.line("Tick", fmt.Sprint(s.tick))
}

func (s *session) writeEquipment() {
	parts := make([]string, 0, len(s.equipment))
	for _, slot := range []string{"amulet", "weapon", "shield", "gloves", "ring"} {
		if id, ok := s.equipment[slot]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", slot, id))
		}
	}
	s.line("Equipment", strings.Join(parts, " "))
}

func (s *session) equip(slot string, id int) {
	s.equipment[slot] = id
	s.writeEquipment()
}

func charges(n int) string {
	if n == 1 {
		return "1 charge"
	}
	return fmt.Sprintf("%d charges", n)
}

// ─────────────────────────────────────────────────────────────────────────────
// Activities
// ─────────────────────────────────────────────────────────────────────────────

func (s *session) combat() {
	if s.equipment["amulet"] != idDodgy {
		s.equip("amulet", idDodgy)
	}
	s.dodgy--
	if s.dodgy == 0 {
		s.chat("Your dodgy necklace protects you. <col=ef1020>It then crumbles to dust.</col>")
		s.dodgy = 10
		return
	}
	s.chat(fmt.Sprintf("Your dodgy necklace protects you. <col=ef1020>It has %s left.</col>", charges(s.dodgy)))
	if s.rng.Float64() < 0.05 {
		s.equip("ring", idRecoil)
		s.chat("<col=7f007f>Your Ring of Recoil has shattered.</col>")
		delete(s.equipment, "ring")
		s.writeEquipment()
	}
}

func (s *session) slayer() {
	if s.equipment["gloves"] != idSlaughter {
		s.equip("gloves", idSlaughter)
	}
	if s.rng.Float64() > 0.2 {
		return
	}
	s.slaughter--
	if s.slaughter == 0 {
		s.line("Dialog", "primary - Your bracelet of slaughter crumbles to dust.")
		s.slaughter = 30
		return
	}
	s.chat(fmt.Sprintf("Your bracelet of slaughter prevents your slayer count decreasing. It has %s left.", charges(s.slaughter)))
}

func (s *session) runecraft() {
	if s.equipment["amulet"] != idBinding {
		s.equip("amulet", idBinding)
	}
	s.chat("You bind the temple's power into mist runes.")
	s.binding--
	if s.binding == 0 {
		s.chat("Your Binding necklace has disintegrated.")
		s.binding = 16
	}
}

func (s *session) teleport() {
	id, ok := gamesNecklaces[s.games]
	if !ok {
		s.games = 8
		id = gamesNecklaces[8]
	}
	s.equip("amulet", id)
	s.games--
	if s.games == 0 {
		delete(s.equipment, "amulet")
		s.writeEquipment()
		s.games = 8
		return
	}
	s.equip("amulet", gamesNecklaces[s.games])
}

func (s *session) xericTeleport() {
	if s.xeric == 0 {
		s.line("Dialog", fmt.Sprintf("primary - Your talisman now has %s.", charges(30)))
		s.xeric = 30
		return
	}
	s.line("Graphic", fmt.Sprintf("local %d", xericGraphic))
	s.xeric--
	if s.xeric == 0 {
		s.chat("Your talisman has run out of charges.")
	}
}

func (s *session) readChronicle() {
	if s.equipment["shield"] != idChronicle {
		s.equip("shield", idChronicle)
	}
	if s.chronicle < 5 {
		s.chronicle += 20
		s.chat(fmt.Sprintf("You add 20 charges to your book. It now has %d charges.", s.chronicle))
		return
	}
	s.chronicle--
	if s.rng.Float64() < 0.3 {
		s.chat(fmt.Sprintf("Your book has %s left.", charges(s.chronicle)))
	}
}

// step runs one random activity followed by a few ticks.
func (s *session) step() {
	switch r := s.rng.Float64(); {
	case r < 0.30:
		s.combat()
	case r < 0.50:
		s.slayer()
	case r < 0.70:
		s.runecraft()
	case r < 0.80:
		s.teleport()
	case r < 0.90:
		s.xericTeleport()
	default:
		s.readChronicle()
	}
	for i := 0; i < 1+s.rng.Intn(3); i++ {
		s.advance()
	}
}

func (s *session) start() {
	s.line("Config", "itemCharge.showInfoboxes=true")
	s.equip("weapon", 4151)
	s.advance()
}

func (s *session) flush() error {
	return s.w.Flush()
}

// ─────────────────────────────────────────────────────────────────────────────
// File generator
// ─────────────────────────────────────────────────────────────────────────────

func generateFile(path string, steps int, baseTime time.Time, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	s := newSession(f, baseTime, rng)
	s.start()
	for i := 0; i < steps; i++ {
		s.step()
	}
	return s.flush()
}

func runLive(path string, interval time.Duration, baseTime time.Time, rng *rand.Rand) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	s := newSession(f, baseTime, rng)
	s.start()
	for {
		if err := s.flush(); err != nil {
			return err
		}
		time.Sleep(interval)
		s.t = time.Now()
		s.step()
	}
}

func fileName(t time.Time) string {
	return fmt.Sprintf("item_charges_%s.log", t.Format("2006-01-02_15-04-05"))
}

// ─────────────────────────────────────────────────────────────────────────────
// main
// ─────────────────────────────────────────────────────────────────────────────

func main() {
	outputDir := flag.String("output-dir", "testdata/generated", "output directory")
	count := flag.Int("count", 10, "number of files to generate")
	steps := flag.Int("events", 400, "activity steps per session")
	seed := flag.Int64("seed", 0, "random seed (0 = use current Unix time)")
	startDate := flag.String("start-date", "2026-01-01", "base date for timestamps, YYYY-MM-DD")
	live := flag.Bool("live", false, "append one session in real time")
	interval := flag.Duration("interval", 600*time.Millisecond, "delay between live steps")
	flag.Parse()

	if *count < 1 || *steps < 1 {
		fmt.Fprintln(os.Stderr, "error: --count and --events must be >= 1")
		os.Exit(1)
	}

	actualSeed := *seed
	if actualSeed == 0 {
		actualSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(actualSeed))
	fmt.Printf("seed: %d\n", actualSeed)

	baseTime, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid --start-date %q: %v\n", *startDate, err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot create output dir %q: %v\n", *outputDir, err)
		os.Exit(1)
	}

	if *live {
		now := time.Now()
		path := filepath.Join(*outputDir, fileName(now))
		fmt.Printf("writing live session to %s (Ctrl-C to stop)\n", path)
		if err := runLive(path, *interval, now, rng); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	t := baseTime
	for i := 0; i < *count; i++ {
		// Stagger each session's start time by 30 min – 3 h.
		t = t.Add(time.Duration(30+rng.Intn(150)) * time.Minute)

		fname := fileName(t)
		outPath := filepath.Join(*outputDir, fname)
		if err := generateFile(outPath, *steps, t, rng); err != nil {
			fmt.Fprintf(os.Stderr, "error generating %s: %v\n", fname, err)
			os.Exit(1)
		}

		info, _ := os.Stat(outPath)
		fmt.Printf("[%3d/%d] %s  %.1f KiB\n", i+1, *count, fname, float64(info.Size())/1024)
	}

	fmt.Printf("\ndone: %d files written to %s\n", *count, *outputDir)
}
