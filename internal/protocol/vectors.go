package protocol

import "math/rand"

// VectorSet is one drawn collision vector per category.
type VectorSet struct {
	Scientific    string
	Cultural      string
	Philosophical string
	Technological string
	Personal      string
}

// Collision vector pools, one per category.
var (
	scientificVectors = []string{
		"Quantum entanglement and non-locality",
		"CRISPR gene editing and human enhancement",
		"Artificial intelligence emergence and consciousness",
		"Climate tipping points and planetary boundaries",
		"Neuroscience of trauma and memory",
		"Dark matter and the invisible universe",
		"Mycorrhizal networks and underground communication",
		"Epigenetics and inherited trauma",
		"Particle physics and the observer effect",
		"Microbiome research and symbiotic identity",
	}
	culturalVectors = []string{
		"Late-stage capitalism and spiritual exhaustion",
		"Social media algorithms and identity formation",
		"Surveillance capitalism and privacy collapse",
		"Cancel culture and public shame",
		"Streaming platforms and narrative fragmentation",
		"Gig economy precarity and meaning",
		"True crime obsession and collective trauma",
		"Influencer culture and parasocial relationships",
		"Climate anxiety and apocalyptic imagination",
		"Wellness industry and commercialized spirituality",
	}
	philosophicalVectors = []string{
		"Derrida's differance and meaning's perpetual deferral",
		"Levinas's ethics of the face and infinite responsibility",
		"Foucault's biopower and disciplinary societies",
		"Heidegger's being-toward-death and authentic existence",
		"Zizek's parallax view and ideological fantasy",
		"Butler's performativity and constructed identity",
		"Agamben's homo sacer and bare life",
		"Nancy's being singular plural and community",
		"Badiou's event and truth procedures",
		"Haraway's cyborg manifesto and boundary transgression",
	}
	technologicalVectors = []string{
		"Deepfakes and the collapse of visual truth",
		"VR/AR and the virtualization of experience",
		"Cryptocurrency and decentralized trust",
		"Brain-computer interfaces and cognitive enhancement",
		"Automated decision systems and algorithmic justice",
		"Digital resurrection and grief tech",
		"Biometric surveillance and bodily data",
		"Gene therapy and designer biology",
		"Quantum computing and computational limits",
		"Neural networks and machine learning opacity",
	}
	personalVectors = []string{
		"Chronic illness and the loss of future",
		"Career transition and identity dissolution",
		"Infertility and unfulfilled longing",
		"Addiction recovery and radical dependence",
		"Divorce and the death of shared narrative",
		"Aging parents and role reversal",
		"Empty nest and purposelessness",
		"Religious deconstruction and spiritual homelessness",
		"Burnout and the exhaustion of meaning",
		"Grief that refuses resolution",
	}
)

// DrawVectors picks one vector from each category using the provided
// source. Pass a seeded source in tests for deterministic draws.
func DrawVectors(rng *rand.Rand) VectorSet {
	return VectorSet{
		Scientific:    scientificVectors[rng.Intn(len(scientificVectors))],
		Cultural:      culturalVectors[rng.Intn(len(culturalVectors))],
		Philosophical: philosophicalVectors[rng.Intn(len(philosophicalVectors))],
		Technological: technologicalVectors[rng.Intn(len(technologicalVectors))],
		Personal:      personalVectors[rng.Intn(len(personalVectors))],
	}
}
