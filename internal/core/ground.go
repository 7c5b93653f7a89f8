package core

// GroundedCount returns the number of actions GroundActions yields for r:
// 2·|C|·|P|·|A| for Load and Unload plus |P|·|A|·(|A|-1) for Fly.
func GroundedCount(r Roster) int {
	c, p, a := len(r.Cargos), len(r.Planes), len(r.Airports)
	if a == 0 {
		return 0
	}
	return 2*c*p*a + p*a*(a-1)
}

// GroundActions instantiates every schema over r: all Load actions, then
// all Unload actions, then all Fly actions. The order depends only on the
// order of the roster lists.
func GroundActions(r Roster) []Action {
	actions := make([]Action, 0, GroundedCount(r))
	actions = append(actions, loadActions(r)...)
	actions = append(actions, unloadActions(r)...)
	actions = append(actions, flyActions(r)...)
	return actions
}

func loadActions(r Roster) []Action {
	var out []Action
	for _, c := range r.Cargos {
		for _, p := range r.Planes {
			for _, a := range r.Airports {
				out = append(out, LoadAction(c, p, a))
			}
		}
	}
	return out
}

func unloadActions(r Roster) []Action {
	var out []Action
	for _, c := range r.Cargos {
		for _, p := range r.Planes {
			for _, a := range r.Airports {
				out = append(out, UnloadAction(c, p, a))
			}
		}
	}
	return out
}

// flyActions skips self-loops.
func flyActions(r Roster) []Action {
	var out []Action
	for _, from := range r.Airports {
		for _, to := range r.Airports {
			if from == to {
				continue
			}
			for _, p := range r.Planes {
				out = append(out, FlyAction(p, from, to))
			}
		}
	}
	return out
}
