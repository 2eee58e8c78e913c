package diag

import (
	"fmt"
	"slices"
)

// Code is a stable numeric identifier of a diagnostic cause.
// Ranges: 1xxx input/output, 2xxx instance format, 3xxx instance lint,
// 4xxx solution format, 5xxx verification, 6xxx observability.
type Code uint16

const (
	UnknownCode Code = 0

	// Ввод-вывод
	IOInfo        Code = 1000
	IOReadError   Code = 1001
	IOLineTooLong Code = 1002

	// Формат инстанса
	ParInfo               Code = 2000
	ParEmptyInput         Code = 2001
	ParMissingHeader      Code = 2002
	ParMalformedHeader    Code = 2003
	ParDuplicateHeader    Code = 2004
	ParUnknownTrack       Code = 2005
	ParUnsupportedVersion Code = 2006
	ParWrongTokenCount    Code = 2007
	ParNotInteger         Code = 2008
	ParCountOutOfRange    Code = 2009
	ParVertexOutOfRange   Code = 2010
	ParDuplicateVertex    Code = 2011
	ParUnexpectedWeight   Code = 2012
	ParEdgeCountMismatch  Code = 2013
	ParTreeCountMismatch  Code = 2014
	ParTreeBeforeHeader   Code = 2015
	ParInvalidNewick      Code = 2016
	ParInvalidStride      Code = 2017
	ParUnrecognizedLine   Code = 2018
	ParBadParam           Code = 2019
	ParUnknownParam       Code = 2020
	ParExtraWhitespace    Code = 2021
	ParMissingParam       Code = 2022

	// Линтер инстанса
	LntInfo           Code = 3000
	LntSelfLoop       Code = 3001
	LntDuplicateEdge  Code = 3002
	// 3003, 3004 и 3015 заняты: расхождение с заголовком ловит парсер (PAR2013, PAR2014)
	LntIsolatedVertex Code = 3005
	LntMinDegree      Code = 3006
	LntDisconnected   Code = 3007
	LntBoundExceedsN  Code = 3008
	LntNotBipartite   Code = 3009
	LntLeafLabel      Code = 3010
	LntTooManyLeaves  Code = 3011
	LntTooFewLeaves   Code = 3012
	LntDuplicateLabel Code = 3013
	LntNegativeWeight Code = 3014

	// Формат решения
	SolInfo             Code = 4000
	SolNotInteger       Code = 4001
	SolVertexOutOfRange Code = 4002
	SolWrongTokenCount  Code = 4003
	SolMisplacedClaim   Code = 4004
	SolDuplicateClaim   Code = 4005
	SolInvalidNewick    Code = 4006
	SolLeafOutOfRange   Code = 4007
	SolInvalidStride    Code = 4008
	SolUnrecognizedLine Code = 4009
	SolFoundHeader      Code = 4010
	SolExtraWhitespace  Code = 4011

	// Проверка решения
	VerInfo              Code = 5000
	VerNoVerifier        Code = 5001
	VerDuplicateEntry    Code = 5002
	VerEdgeUncovered     Code = 5003
	VerUndominated       Code = 5004
	VerCycleRemains      Code = 5005
	VerNotPermutation    Code = 5006
	VerWrongSide         Code = 5007
	VerLeafMissing       Code = 5008
	VerTreeMismatch      Code = 5009
	VerObjectiveMismatch Code = 5101
	VerBoundExceeded     Code = 5102
	VerObjectiveOverflow Code = 5103

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		IOInfo:                "I/O information",
		IOReadError:           "Failed to read input",
		IOLineTooLong:         "Line exceeds the maximum supported length",
		ParInfo:               "Instance format information",
		ParEmptyInput:         "Instance is empty",
		ParMissingHeader:      "Instance has no header line",
		ParMalformedHeader:    "Malformed header line",
		ParDuplicateHeader:    "Header line appears more than once",
		ParUnknownTrack:       "Unknown track",
		ParUnsupportedVersion: "Unsupported track version",
		ParWrongTokenCount:    "Wrong number of tokens on line",
		ParNotInteger:         "Token is not an integer",
		ParCountOutOfRange:    "Declared count out of range",
		ParVertexOutOfRange:   "Vertex id outside of declared range",
		ParDuplicateVertex:    "Vertex declared more than once",
		ParUnexpectedWeight:   "Weight given on a track without weights",
		ParEdgeCountMismatch:  "Number of edge lines differs from header",
		ParTreeCountMismatch:  "Number of trees differs from header",
		ParTreeBeforeHeader:   "Tree appears before the header",
		ParInvalidNewick:      "Invalid Newick string",
		ParInvalidStride:      "Invalid stride line",
		ParUnrecognizedLine:   "Unrecognized line",
		ParBadParam:           "Malformed track parameter",
		ParUnknownParam:       "Unknown track parameter",
		ParExtraWhitespace:    "Line has extra whitespace",
		ParMissingParam:       "Required track parameter missing",
		LntInfo:               "Instance lint information",
		LntSelfLoop:           "Self-loop not allowed on this track",
		LntDuplicateEdge:      "Parallel edge not allowed on this track",
		LntIsolatedVertex:     "Isolated vertex not allowed on this track",
		LntMinDegree:          "Vertex degree below track minimum",
		LntDisconnected:       "Graph must be connected on this track",
		LntBoundExceedsN:      "Objective bound is larger than the instance",
		LntNotBipartite:       "Edge does not join the two layers",
		LntLeafLabel:          "Leaf label outside of declared range",
		LntTooManyLeaves:      "Tree has more leaves than declared",
		LntTooFewLeaves:       "Tree has fewer leaves than declared",
		LntDuplicateLabel:     "Leaf label appears more than once",
		LntNegativeWeight:     "Negative weight",
		SolInfo:               "Solution format information",
		SolNotInteger:         "Solution token is not an integer",
		SolVertexOutOfRange:   "Solution references a vertex outside of the instance",
		SolWrongTokenCount:    "Wrong number of tokens on solution line",
		SolMisplacedClaim:     "Objective line must precede all entries",
		SolDuplicateClaim:     "Objective line appears more than once",
		SolInvalidNewick:      "Invalid Newick string in solution",
		SolLeafOutOfRange:     "Solution references a leaf outside of the instance",
		SolInvalidStride:      "Invalid stride line in solution",
		SolUnrecognizedLine:   "Unrecognized solution line",
		SolFoundHeader:        "Solution contains an instance header",
		SolExtraWhitespace:    "Solution line has extra whitespace",
		VerInfo:               "Verification information",
		VerNoVerifier:         "No verifier registered for track",
		VerDuplicateEntry:     "Solution lists an entry more than once",
		VerEdgeUncovered:      "Edge is not covered",
		VerUndominated:        "Vertex is not dominated",
		VerCycleRemains:       "Cycle remains after removing the solution",
		VerNotPermutation:     "Ordering is not a permutation of the free layer",
		VerWrongSide:          "Ordering contains a vertex of the fixed layer",
		VerLeafMissing:        "Leaf not covered by the solution",
		VerTreeMismatch:       "Solution tree cannot be isolated in instance tree",
		VerObjectiveMismatch:  "Claimed objective differs from the computed one",
		VerBoundExceeded:      "Objective exceeds the instance bound",
		VerObjectiveOverflow:  "Objective value overflows",
		ObsInfo:               "Observability information",
		ObsTimings:            "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("PAR%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LNT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("SOL%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("VER%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Codes returns every known code in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		if c != UnknownCode {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}
