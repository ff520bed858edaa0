// Package model defines the town population-estimate schema and records.
package model

import "github.com/MaineStateEconomist207/pepv2024/internal/frame"

// Raw column names in the population estimates file.
const (
	RawGEOID             = "GEOID"
	RawSumLev            = "SUMLEV"
	RawState             = "STATE"
	RawCousub            = "COUSUB"
	RawName              = "NAME"
	RawCounty            = "COUNTY"
	RawPopulation        = "POPESTIMATE2024"
	RawDensity           = "DENSITY2024"
	RawNumericChange     = "NPOPCHG2024"
	RawPercentChange     = "PPOPCHG2024"
	RawNumericChangeBase = "NPOPCHG_2020_2024"
	RawPercentChangeBase = "PPOPCHG_2020_2024"
)

// Human-readable column labels used after cleaning.
const (
	ColGEOID             = "GEOID"
	ColTown              = "Town"
	ColCounty            = "County"
	ColPopulation        = "Population (2024)"
	ColDensity           = "Density (per sq. mi.)"
	ColNumericChange     = "Numeric Change (2023-2024)"
	ColPercentChange     = "Percent Change (2023-2024)"
	ColNumericChangeBase = "Numeric Change (2020-2024)"
	ColPercentChangeBase = "Percent Change (2020-2024)"
	ColRank              = "Rank"
	ColCategory          = "Category"
)

// TextColumns are raw columns parsed as text even when they look numeric.
var TextColumns = []string{RawGEOID, RawSumLev, RawState, RawCousub, RawName, RawCounty}

// IdentifierColumns are dropped from every table.
var IdentifierColumns = []string{RawGEOID, RawSumLev, RawState, RawCousub}

// Renames maps raw columns to their labels, in display order.
var Renames = []frame.Rename{
	{From: RawName, To: ColTown},
	{From: RawCounty, To: ColCounty},
	{From: RawPopulation, To: ColPopulation},
	{From: RawDensity, To: ColDensity},
	{From: RawNumericChange, To: ColNumericChange},
	{From: RawPercentChange, To: ColPercentChange},
	{From: RawNumericChangeBase, To: ColNumericChangeBase},
	{From: RawPercentChangeBase, To: ColPercentChangeBase},
}

// PercentColumns are the labelled columns holding percent change.
var PercentColumns = []string{ColPercentChange, ColPercentChangeBase}

// DisplayColumns is the column order of the full towns table.
var DisplayColumns = []string{
	ColTown, ColCounty, ColPopulation, ColDensity,
	ColNumericChange, ColPercentChange,
	ColNumericChangeBase, ColPercentChangeBase,
}
