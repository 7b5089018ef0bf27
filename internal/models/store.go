package models

import (
	"strings"
	"time"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type StoreHours struct {
	WeekdayText         []string `json:"weekdayText,omitempty"`
	CurrentOpeningHours []string `json:"currentOpeningHours,omitempty"`
}

// Store is one normalized retail location in a snapshot.
type Store struct {
	PlaceID                      string      `json:"placeId"`
	Name                         string      `json:"name"`
	FormattedAddress             string      `json:"formattedAddress"`
	Locality                     string      `json:"locality,omitempty"`
	Location                     Location    `json:"location"`
	GoogleMapsURI                string      `json:"googleMapsUri"`
	BusinessStatus               string      `json:"businessStatus,omitempty"`
	PhoneNumber                  string      `json:"phoneNumber,omitempty"`
	InternationalPhoneNumber     string      `json:"internationalPhoneNumber,omitempty"`
	Website                      string      `json:"website,omitempty"`
	Types                        []string    `json:"types"`
	Categories                   []string    `json:"categories"`
	Rating                       *float64    `json:"rating,omitempty"`
	UserRatingsTotal             *int        `json:"userRatingsTotal,omitempty"`
	OpeningHours                 *StoreHours `json:"openingHours,omitempty"`
	Delivery                     *bool       `json:"delivery,omitempty"`
	Takeout                      *bool       `json:"takeout,omitempty"`
	WheelchairAccessibleEntrance *bool       `json:"wheelchairAccessibleEntrance,omitempty"`
	LastSyncedAt                 Timestamp   `json:"lastSyncedAt"`
}

// HasCategory reports whether the store carries category, ignoring case.
func (s Store) HasCategory(category string) bool {
	for _, c := range s.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

type DatasetMetadata struct {
	GeneratedAt   Timestamp `json:"generatedAt"`
	SourceQueries []string  `json:"sourceQueries"`
}

// StoreDataset is the on-disk snapshot written by a harvest run.
type StoreDataset struct {
	Stores   []Store         `json:"stores"`
	Metadata DatasetMetadata `json:"metadata"`
}

// EmptyDataset is served before the first harvest has produced a snapshot.
func EmptyDataset() *StoreDataset {
	return &StoreDataset{
		Stores: []Store{},
		Metadata: DatasetMetadata{
			GeneratedAt:   Timestamp{Time: time.Unix(0, 0).UTC()},
			SourceQueries: []string{},
		},
	}
}
