package controller

import "sync"

// SetpointStore is a mutable SetpointProvider fed by an external
// commander (the HTTP surface, a planner, a test).
type SetpointStore struct {
	mu sync.RWMutex
	sp Setpoint
}

func (s *SetpointStore) Set(sp Setpoint) {
	s.mu.Lock()
	s.sp = sp
	s.mu.Unlock()
}

func (s *SetpointStore) Setpoint() Setpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sp
}

// StateStore is a mutable StateProvider/SensorProvider for hosts that
// push estimates in from outside the control task.
type StateStore struct {
	mu      sync.RWMutex
	state   State
	sensors SensorData
}

func (s *StateStore) SetState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *StateStore) SetSensors(sd SensorData) {
	s.mu.Lock()
	s.sensors = sd
	s.mu.Unlock()
}

func (s *StateStore) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *StateStore) Sensors() SensorData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sensors
}
