// Package domain models emergency dialing data for the One Tap Call service.
//
// # Country records
//
// Every country record carries exactly three service numbers (police, fire,
// medical) plus an optional unified number for countries that route all
// services through one dial code (112 across most of Europe, 911 in North
// America). Dial strings are short codes, not E.164 numbers: "911", "999",
// "15", "10111" are all valid.
//
// The record with country code "XX" is the universal default. It is the
// answer of last resort when the caller's country cannot be determined. All
// three of its numbers are "112", the GSM standard emergency number that
// most handsets accept even without a SIM.
//
// # Resolution sources
//
// Every resolution is tagged with where its number came from:
//
//	remote:  the remote number store answered for the resolved country
//	local:   the remote store failed or had no record; the built-in
//	         directory answered
//	default: the country was never resolved; the "XX" record answered
//
// The tiers degrade in that order and the pipeline never surfaces a fault.
// An emergency number is always produced.
package domain
