package game

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// catalogOrder is the stable draw order for pickup spawning. A sorted copy
// of the catalog keys keeps spawn selection deterministic under a seeded RNG.
var catalogOrder = sortedCatalogTypes()

func sortedCatalogTypes() []EffectType {
	types := CatalogTypes()
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// tickPickups spawns due pickups and resolves collection against the main
// ball and any live extra balls.
func (s *State) tickPickups(now time.Time) {
	if len(s.Pickups) < maxLivePickups && now.After(s.nextPickupSpawn) {
		s.spawnPickup(now)
		s.nextPickupSpawn = now.Add(s.spawnInterval(now))
	}
	s.collectPickups(now)
	s.collectCoins(now)
}

// spawnInterval shrinks linearly from the starting interval to the floor
// over the room's first minute of active life.
func (s *State) spawnInterval(now time.Time) time.Duration {
	age := now.Sub(s.activeSince)
	if age >= spawnRampWindow {
		return spawnIntervalFloor
	}
	frac := float64(age) / float64(spawnRampWindow)
	spread := float64(spawnIntervalStart - spawnIntervalFloor)
	return spawnIntervalStart - time.Duration(frac*spread)
}

func (s *State) spawnPickup(now time.Time) {
	x, y := s.randomInteriorPoint()
	s.Pickups = append(s.Pickups, Pickup{
		ID:   uuid.NewString(),
		Type: catalogOrder[s.rng.Intn(len(catalogOrder))],
		X:    x,
		Y:    y,
		Size: pickupRadius,
	})
}

func (s *State) collectPickups(now time.Time) {
	if len(s.Pickups) == 0 {
		return
	}
	kept := s.Pickups[:0]
	for _, pk := range s.Pickups {
		if s.anyBallWithin(pk.X, pk.Y, pk.Size) {
			s.applyEffect(pk.Type, now)
			s.CollectedFlash = now.Add(collectedFlash).UnixMilli()
			continue
		}
		kept = append(kept, pk)
	}
	s.Pickups = kept
}

func (s *State) collectCoins(now time.Time) {
	if len(s.Coins) == 0 {
		return
	}
	kept := s.Coins[:0]
	for _, c := range s.Coins {
		if s.anyBallWithin(c.X, c.Y, c.Size) {
			if side := s.Ball.LastTouchedBy; side.Playing() {
				s.awardPoints(side, 1, now)
			}
			s.CollectedFlash = now.Add(collectedFlash).UnixMilli()
			continue
		}
		kept = append(kept, c)
	}
	s.Coins = kept
}

// anyBallWithin reports whether the main ball or any extra ball's center
// lies within the combined radius of itself and a field object at (x, y).
func (s *State) anyBallWithin(x, y, radius float64) bool {
	if math.Hypot(s.Ball.X-x, s.Ball.Y-y) < radius+s.Ball.Size {
		return true
	}
	for _, eb := range s.ExtraBalls {
		if math.Hypot(eb.X-x, eb.Y-y) < radius+eb.Size {
			return true
		}
	}
	return false
}
