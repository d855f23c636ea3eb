package ionosphere

import (
	"fmt"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestLoadDataFiles(t *testing.T) {
	dataDir := t.TempDir()
	writeFile(t, dataDir, "ap.dat", "58 1 1 4\n24 6 30 11\n")
	writeFile(t, dataDir, "ig_rz.dat", "17,11,2023\n11,1958,12,2024\n")
	writeFile(t, dataDir, "cal.csp", `DOPRNG,CONST,(2.5),CHPART,"04/01/01,00:00:00","04/12/31,23:59:59",DSN(C10),SCID(32)`+"\n")

	confDir := t.TempDir()
	writeFile(t, confDir, "conf.toml", fmt.Sprintf("[data]\ndirectory = '%s'\n", dataDir))
	t.Setenv("IONO_CONFIG", confDir)

	soft, hard, store, err := LoadDataFiles()
	if err != nil {
		t.Fatal(err)
	}
	if soft.Min != 19581101 || soft.Max != 20241231 {
		t.Fatalf("soft window = %+v", soft)
	}
	if hard.Min != 19580101 || hard.Max != 20240630 {
		t.Fatalf("hard window = %+v", hard)
	}
	if store.Len() != 1 {
		t.Fatalf("store holds %d entries", store.Len())
	}

	// The loaded table resolves an end to end TRK-2-23 correction.
	iono := NewIonosphere(TRK223, nil, store, soft, hard)
	correction, err := iono.Correction(Request{
		WaveLength:   SpeedOfLight / sBandRefFreq,
		Epoch:        epochAt(2004, time.June, 15, 12, 0),
		StationID:    "14",
		SpacecraftID: 32,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(correction.Range, 2.5, 1e-12) {
		t.Fatalf("range correction = %f m", correction.Range)
	}
}
