package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseSNPFile reads a raw genotype export: UTF-8, tab-separated lines of
// rsid, chromosome, position, genotype. Comment lines starting with '#' and
// blank lines are ignored. A genotype of "--" means no call and the line is
// skipped, as are genotypes that are not exactly two bases and lines whose
// position does not parse as an integer.
// Malformed lines are counted, never fatal.
func ParseSNPFile(r io.Reader) (GeneticProfile, int, error) {
	profile := make(GeneticProfile)
	skipped := 0

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			skipped++
			continue
		}

		rsID := strings.TrimSpace(fields[0])
		genotype := strings.TrimSpace(fields[3])
		if rsID == "" || genotype == "--" || len(genotype) != 2 {
			skipped++
			continue
		}

		position, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			skipped++
			continue
		}

		profile[rsID] = SNPRecord{
			RsID:       rsID,
			Chromosome: strings.TrimSpace(fields[1]),
			Position:   position,
			Genotype:   genotype,
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("scanning genotype file: %w", err)
	}

	return profile, skipped, nil
}

// LoadSNPFile parses the genotype file at path.
func LoadSNPFile(path string) (GeneticProfile, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening genotype file: %w", err)
	}
	defer f.Close()
	return ParseSNPFile(f)
}
