package relevance

import (
	"coarank/domain/coa"
	"coarank/domain/situation"
)

// DefaultTable returns the built-in doctrine relevance rows used when no
// external table is loaded. Values follow the doctrinal pairing of response
// posture to threat class; collaborators may override them wholesale by
// loading a table file.
func DefaultTable() []Mapping {
	return []Mapping{
		// Armored assault: ground maneuver threats favor direct responses.
		{coa.TypeDefense, situation.ThreatArmoredAssault, 0.90, "prepared defense against armored penetration"},
		{coa.TypeCounterAttack, situation.ThreatArmoredAssault, 0.85, "counter-attack into exposed flanks"},
		{coa.TypeManeuver, situation.ThreatArmoredAssault, 0.70, "repositioning against axis of advance"},
		{coa.TypeOffensive, situation.ThreatArmoredAssault, 0.60, "spoiling attack"},
		{coa.TypeDeterrence, situation.ThreatArmoredAssault, 0.40, "show of force has limited effect once armor moves"},
		{coa.TypeInformationOps, situation.ThreatArmoredAssault, 0.25, "supporting effort only"},

		// Artillery strike
		{coa.TypeCounterAttack, situation.ThreatArtilleryStrike, 0.90, "counter-battery response"},
		{coa.TypeDefense, situation.ThreatArtilleryStrike, 0.70, "hardening and dispersal"},
		{coa.TypePreemptive, situation.ThreatArtilleryStrike, 0.65, "strike firing positions before sustained fire"},
		{coa.TypeManeuver, situation.ThreatArtilleryStrike, 0.55, "displace out of the fire sack"},
		{coa.TypeInformationOps, situation.ThreatArtilleryStrike, 0.20, "supporting effort only"},

		// Missile threat
		{coa.TypeDefense, situation.ThreatMissileThreat, 0.85, "layered air and missile defense"},
		{coa.TypePreemptive, situation.ThreatMissileThreat, 0.75, "left-of-launch options"},
		{coa.TypeDeterrence, situation.ThreatMissileThreat, 0.65, "visible retaliatory posture"},
		{coa.TypeOffensive, situation.ThreatMissileThreat, 0.45, "high escalation risk"},

		// Infiltration
		{coa.TypeDefense, situation.ThreatInfiltration, 0.80, "screening and rear-area security"},
		{coa.TypeManeuver, situation.ThreatInfiltration, 0.75, "blocking positions on infiltration routes"},
		{coa.TypeInformationOps, situation.ThreatInfiltration, 0.60, "expose and attribute"},
		{coa.TypeCounterAttack, situation.ThreatInfiltration, 0.55, "sweep once located"},

		// Air threat
		{coa.TypeDefense, situation.ThreatAirThreat, 0.85, "integrated air defense"},
		{coa.TypeDeterrence, situation.ThreatAirThreat, 0.60, "combat air patrol posture"},
		{coa.TypePreemptive, situation.ThreatAirThreat, 0.55, "suppression of launch infrastructure"},

		// Amphibious
		{coa.TypeDefense, situation.ThreatAmphibious, 0.85, "coastal defense in depth"},
		{coa.TypeCounterAttack, situation.ThreatAmphibious, 0.80, "strike the lodgement before buildup"},
		{coa.TypeManeuver, situation.ThreatAmphibious, 0.60, "reposition mobile reserves"},

		// Cyber attack
		{coa.TypeInformationOps, situation.ThreatCyberAttack, 0.90, "primary response domain"},
		{coa.TypeDefense, situation.ThreatCyberAttack, 0.70, "isolate and harden networks"},
		{coa.TypeDeterrence, situation.ThreatCyberAttack, 0.50, "attribution and declared consequences"},

		// Provocation short of attack
		{coa.TypeDeterrence, situation.ThreatProvocation, 0.90, "measured show of force"},
		{coa.TypeInformationOps, situation.ThreatProvocation, 0.75, "counter-messaging"},
		{coa.TypeDefense, situation.ThreatProvocation, 0.60, "raise readiness without escalation"},
		{coa.TypeOffensive, situation.ThreatProvocation, 0.20, "disproportionate"},
		{coa.TypePreemptive, situation.ThreatProvocation, 0.15, "disproportionate"},
	}
}
