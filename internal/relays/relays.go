// Package relays models the remote relay directory: the flat relay list
// fetched from the provider API, its country/city grouping for menus, and
// the SQLite-backed snapshot cache.
package relays

import (
	"net"
	"sort"
	"strconv"
)

// Relay identifies one remote WireGuard endpoint.
type Relay struct {
	Code      string `json:"code"`
	Hostname  string `json:"hostname"`
	PublicKey string `json:"publicKey"`
	IPv4Addr  string `json:"ipv4Addr"`
	Port      int    `json:"port"`
	Country   string `json:"country"`
	City      string `json:"city"`
}

// Endpoint renders the peer endpoint as "address:port".
func (r Relay) Endpoint() string {
	return net.JoinHostPort(r.IPv4Addr, strconv.Itoa(r.Port))
}

// Location renders "City, Country" for display.
func (r Relay) Location() string {
	return r.City + ", " + r.Country
}

// Tree groups relays by country then city.
type Tree map[string]map[string][]Relay

// Group builds a Tree from a flat relay list. Relays within a city are
// sorted by code for deterministic listing order.
func Group(list []Relay) Tree {
	tree := make(Tree)
	for _, relay := range list {
		cities, ok := tree[relay.Country]
		if !ok {
			cities = make(map[string][]Relay)
			tree[relay.Country] = cities
		}
		cities[relay.City] = append(cities[relay.City], relay)
	}
	for _, cities := range tree {
		for _, group := range cities {
			sort.Slice(group, func(i, j int) bool { return group[i].Code < group[j].Code })
		}
	}
	return tree
}

// Countries returns the sorted country names in the tree.
func (t Tree) Countries() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cities returns the sorted city names for a country.
func (t Tree) Cities(country string) []string {
	cities, ok := t[country]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(cities))
	for name := range cities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RelaysIn returns the relays for a city, sorted by code.
func (t Tree) RelaysIn(country, city string) []Relay {
	cities, ok := t[country]
	if !ok {
		return nil
	}
	return cities[city]
}
