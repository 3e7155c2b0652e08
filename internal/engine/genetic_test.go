package engine

import (
	"context"
	"sort"
	"testing"

	"github.com/piwi3910/StickerNest/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geneticTestConfig() Config {
	cfg := testConfig()
	cfg.Sheet = model.Sheet{Width: 6, Height: 6}
	cfg.Genetic = GeneticConfig{
		PopulationSize: 8,
		Generations:    5,
		MutationRate:   0.3,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
	return cfg
}

func requirePermutation(t *testing.T, genes []gene, n int) {
	t.Helper()
	require.Len(t, genes, n)
	seen := make([]int, 0, n)
	for _, g := range genes {
		seen = append(seen, g.partIndex)
	}
	sort.Ints(seen)
	for i, v := range seen {
		require.Equal(t, i, v, "part indices must stay a permutation")
	}
}

func TestGeneticPacker_PlacesAllWhenRoomy(t *testing.T) {
	p := newGeneticPacker(geneticTestConfig())
	parts := []model.Part{
		model.NewRectPart("A", 2, 1),
		model.NewRectPart("B", 1, 2),
		model.NewRectPart("C", 1.5, 1.5),
	}

	r := p.Pack(context.Background(), parts)

	assert.Len(t, r.Placements, 3)
	assert.Empty(t, r.UnplacedIDs)
}

func TestGeneticPacker_DeterministicForFixedSeed(t *testing.T) {
	parts := []model.Part{
		model.NewRectPart("A", 2, 1),
		model.NewRectPart("B", 1, 2),
		model.NewRectPart("C", 1.5, 1.5),
	}

	r1 := newGeneticPacker(geneticTestConfig()).Pack(context.Background(), parts)
	r2 := newGeneticPacker(geneticTestConfig()).Pack(context.Background(), parts)

	assert.Equal(t, r1, r2, "same seed must reproduce the same layout")
}

func TestGeneticPacker_EmptyInput(t *testing.T) {
	p := newGeneticPacker(geneticTestConfig())
	r := p.Pack(context.Background(), nil)
	assert.Empty(t, r.Placements)
}

func TestGeneticPacker_CancelledReturnsBestSoFar(t *testing.T) {
	p := newGeneticPacker(geneticTestConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := p.Pack(ctx, []model.Part{model.NewRectPart("A", 1, 1)})

	// The initial population is still evaluated.
	assert.Len(t, r.Placements, 1)
}

func TestGreedyChromosome_AreaDescending(t *testing.T) {
	p := newGeneticPacker(geneticTestConfig())
	parts := []model.Part{
		model.NewRectPart("Small", 1, 1),
		model.NewRectPart("Big", 3, 3),
		model.NewRectPart("Mid", 2, 2),
	}

	c := p.greedyChromosome(parts)

	require.Len(t, c.genes, 3)
	assert.Equal(t, 1, c.genes[0].partIndex)
	assert.Equal(t, 2, c.genes[1].partIndex)
	assert.Equal(t, 0, c.genes[2].partIndex)
	for _, g := range c.genes {
		assert.Equal(t, p.cfg.Preset.Rotations[0], g.rotation)
	}
}

func TestOrderCrossover_ProducesPermutation(t *testing.T) {
	p := newGeneticPacker(geneticTestConfig())
	const n = 7

	makeParent := func() chromosome {
		genes := make([]gene, n)
		for i, idx := range p.rng.Perm(n) {
			genes[i] = gene{partIndex: idx, rotation: 0}
		}
		return chromosome{genes: genes}
	}

	for trial := 0; trial < 50; trial++ {
		child := p.orderCrossover(makeParent(), makeParent())
		requirePermutation(t, child.genes, n)
	}
}

func TestOrderCrossover_TinyChromosome(t *testing.T) {
	p := newGeneticPacker(geneticTestConfig())
	parent := chromosome{genes: []gene{{partIndex: 0}, {partIndex: 1}}}
	other := chromosome{genes: []gene{{partIndex: 1}, {partIndex: 0}}}

	child := p.orderCrossover(parent, other)
	requirePermutation(t, child.genes, 2)
}

func TestMutate_PreservesPermutation(t *testing.T) {
	p := newGeneticPacker(geneticTestConfig())
	const n = 6

	genes := make([]gene, n)
	for i := range genes {
		genes[i] = gene{partIndex: i, rotation: 0}
	}
	c := chromosome{genes: genes}

	for trial := 0; trial < 100; trial++ {
		p.mutate(&c)
		requirePermutation(t, c.genes, n)
		for _, g := range c.genes {
			assert.Contains(t, p.cfg.Preset.Rotations, g.rotation)
		}
	}
}

func TestInitPopulation_SizeAndGreedySeed(t *testing.T) {
	p := newGeneticPacker(geneticTestConfig())
	parts := []model.Part{
		model.NewRectPart("Small", 1, 1),
		model.NewRectPart("Big", 3, 3),
	}

	pop := p.initPopulation(parts)

	require.Len(t, pop, p.cfg.Genetic.PopulationSize)
	for _, c := range pop {
		requirePermutation(t, c.genes, len(parts))
	}
	// The first individual is the greedy seed: largest area first.
	assert.Equal(t, 1, pop[0].genes[0].partIndex)
}
