package engine

import (
	"context"
	"math/rand"
	"sort"

	"github.com/piwi3910/StickerNest/internal/model"
)

// GeneticConfig holds parameters for the genetic algorithm optimizer.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
}

// gene represents a single placement decision in the chromosome.
type gene struct {
	partIndex int
	rotation  float64 // degrees, one of the preset angles
}

// chromosome represents a candidate solution: an ordering of parts with a
// rotation assignment per part.
type chromosome struct {
	genes   []gene
	fitness float64
}

// GeneticPacker evolves part orderings and rotation assignments, decoding
// each chromosome with the greedy no-fit-polygon nester and scoring it by
// utilization minus an unplaced-part penalty.
type GeneticPacker struct {
	cfg Config
	rng *rand.Rand
}

func newGeneticPacker(cfg Config) *GeneticPacker {
	return &GeneticPacker{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Genetic.Seed)),
	}
}

func (g *GeneticPacker) Name() model.StrategyName { return model.StrategyGenetic }

func (g *GeneticPacker) Pack(ctx context.Context, parts []model.Part) model.PackingResult {
	if len(parts) == 0 {
		return model.PackingResult{}
	}

	nester := newNFPNester(g.cfg)
	decode := func(c chromosome) model.PackingResult {
		ordered := make([]model.Part, len(c.genes))
		preferred := make([]float64, len(c.genes))
		for i, gn := range c.genes {
			ordered[i] = parts[gn.partIndex]
			preferred[i] = gn.rotation
		}
		return nester.pack(context.Background(), ordered, preferred)
	}
	evaluate := func(c chromosome) (float64, model.PackingResult) {
		r := decode(c)
		fitness := r.Utilization/100.0 - 0.1*float64(len(r.UnplacedIDs))
		if fitness < 0 {
			fitness = 0
		}
		return fitness, r
	}

	cfg := g.cfg.Genetic
	population := g.initPopulation(parts)

	var bestResult model.PackingResult
	bestFitness := -1.0
	for i := range population {
		var r model.PackingResult
		population[i].fitness, r = evaluate(population[i])
		if population[i].fitness > bestFitness {
			bestFitness = population[i].fitness
			bestResult = r
		}
	}

	for gen := 0; gen < cfg.Generations; gen++ {
		if cancelled(ctx) {
			break
		}

		sort.Slice(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})

		newPop := make([]chromosome, 0, cfg.PopulationSize)

		// Elitism: carry over the best individuals unchanged.
		eliteCount := cfg.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, copyChromosome(population[i]))
		}

		for len(newPop) < cfg.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			var r model.PackingResult
			child.fitness, r = evaluate(child)
			if child.fitness > bestFitness {
				bestFitness = child.fitness
				bestResult = r
				g.notify(gen, child.fitness, r)
			}
			newPop = append(newPop, child)
		}

		population = newPop
	}

	return bestResult
}

// initPopulation creates random permutations with random rotations, plus
// one greedy individual (largest area first, first preset rotation) to give
// the search a good starting point.
func (g *GeneticPacker) initPopulation(parts []model.Part) []chromosome {
	n := len(parts)
	rots := g.cfg.Preset.Rotations
	population := make([]chromosome, g.cfg.Genetic.PopulationSize)

	for i := range population {
		genes := make([]gene, n)
		perm := g.rng.Perm(n)
		for j := 0; j < n; j++ {
			genes[j] = gene{
				partIndex: perm[j],
				rotation:  rots[g.rng.Intn(len(rots))],
			}
		}
		population[i] = chromosome{genes: genes}
	}

	if len(population) > 0 {
		population[0] = g.greedyChromosome(parts)
	}
	return population
}

// greedyChromosome mirrors the greedy heuristic: area descending, no
// rotation steering.
func (g *GeneticPacker) greedyChromosome(parts []model.Part) chromosome {
	n := len(parts)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	sort.Slice(indices, func(i, j int) bool {
		return parts[indices[i]].Area > parts[indices[j]].Area
	})

	genes := make([]gene, n)
	for i, idx := range indices {
		genes[i] = gene{partIndex: idx, rotation: g.cfg.Preset.Rotations[0]}
	}
	return chromosome{genes: genes}
}

// tournamentSelect picks the best individual from a random tournament.
func (g *GeneticPacker) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.cfg.Genetic.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation
// chromosomes: a segment is copied from the first parent and the remaining
// positions are filled from the second parent in its relative order,
// skipping part indices already used. The offspring is always a permutation
// of the parents' part set.
func (g *GeneticPacker) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]gene, n)}

	inSegment := make(map[int]bool)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i].partIndex] = true
	}

	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg.partIndex] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies random mutations to a chromosome: swap two order
// positions, reassign a random part's rotation, and occasionally reverse a
// segment.
func (g *GeneticPacker) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}
	rate := g.cfg.Genetic.MutationRate
	rots := g.cfg.Preset.Rotations

	if g.rng.Float64() < rate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	if g.rng.Float64() < rate {
		i := g.rng.Intn(n)
		c.genes[i].rotation = rots[g.rng.Intn(len(rots))]
	}

	if g.rng.Float64() < rate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func copyChromosome(c chromosome) chromosome {
	genes := make([]gene, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}

func (g *GeneticPacker) notify(generation int, fitness float64, r model.PackingResult) {
	if g.cfg.Progress == nil {
		return
	}
	g.cfg.Progress(Progress{
		Generation:  generation,
		Fitness:     fitness,
		Utilization: r.Utilization,
		Placements:  r.Placements,
	})
}
