package datastructure

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/navigatorx-matrix/pkg"
)

var ErrChecksumMismatch = errors.New("graph file checksum mismatch")

// computeChecksum. xxhash over segment and query edge data; identifies a graph build for hints.
func (g *Graph) computeChecksum() uint64 {
	h := xxhash.New()
	buf := make([]byte, 4)
	put := func(v uint32) {
		binary.LittleEndian.PutUint32(buf, v)
		_, _ = h.Write(buf)
	}

	put(uint32(g.network.NumberOfSegments()))
	g.network.ForSegments(func(s *RoadSegment) {
		put(uint32(s.from))
		put(uint32(s.to))
		put(uint32(s.forwardWeight))
		put(uint32(s.backwardWeight))
		put(uint32(s.forwardNode))
		put(uint32(s.backwardNode))
	})
	put(uint32(g.queryGraph.NumberOfNodes()))
	g.queryGraph.ForEdges(func(source Index, e *QueryEdge) {
		put(uint32(source))
		put(uint32(e.target))
		put(uint32(e.weight))
	})
	return h.Sum64()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d %d %d %d %d\n",
		g.network.NumberOfVertices(), g.network.NumberOfSegments(),
		g.queryGraph.NumberOfNodes(), g.queryGraph.NumberOfEdges(),
		boolToInt(g.contracted), g.checksum)

	for _, v := range g.network.vertices {
		fmt.Fprintf(w, "%s %s\n", strconv.FormatFloat(v.Lat, 'f', -1, 64),
			strconv.FormatFloat(v.Lon, 'f', -1, 64))
	}

	for _, s := range g.network.segments {
		fmt.Fprintf(w, "%d %d %d %d %d %d %s %d %d %d\n",
			s.from, s.to, boolToInt(s.forward), boolToInt(s.backward),
			s.forwardWeight, s.backwardWeight, strconv.FormatFloat(s.length, 'f', -1, 64),
			s.highwayType, s.forwardNode, s.backwardNode)
	}

	g.queryGraph.ForEdges(func(source Index, e *QueryEdge) {
		fmt.Fprintf(w, "%d %d %d %d %d %d %d\n",
			source, e.target, e.weight, boolToInt(e.forward), boolToInt(e.backward),
			boolToInt(e.shortcut), e.middle)
	})

	return w.Flush()
}

func fields(s string) []string {
	return strings.Fields(s)
}

func ParseIndex(s string) (Index, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return Index(v), nil
}

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int32(v), err
}

func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	sc := bufio.NewScanner(bz)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<20)

	next := func() ([]string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, errors.New("unexpected end of graph file")
		}
		return fields(sc.Text()), nil
	}

	header, err := next()
	if err != nil {
		return nil, err
	}
	if len(header) != 6 {
		return nil, fmt.Errorf("invalid graph header: %v", header)
	}
	nums := make([]int, 5)
	for i := 0; i < 5; i++ {
		nums[i], err = strconv.Atoi(header[i])
		if err != nil {
			return nil, fmt.Errorf("invalid graph header: %w", err)
		}
	}
	storedChecksum, err := strconv.ParseUint(header[5], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid graph checksum: %w", err)
	}
	numVertices, numSegments, numNodes, numEdges, contracted := nums[0], nums[1], nums[2], nums[3], nums[4] == 1

	network := NewRoadNetwork()
	for i := 0; i < numVertices; i++ {
		line, err := next()
		if err != nil {
			return nil, err
		}
		if len(line) != 2 {
			return nil, fmt.Errorf("invalid vertex line %d", i)
		}
		lat, err := strconv.ParseFloat(line[0], 64)
		if err != nil {
			return nil, err
		}
		lon, err := strconv.ParseFloat(line[1], 64)
		if err != nil {
			return nil, err
		}
		network.AddVertex(lat, lon)
	}

	for i := 0; i < numSegments; i++ {
		line, err := next()
		if err != nil {
			return nil, err
		}
		seg, err := parseSegment(line)
		if err != nil {
			return nil, fmt.Errorf("invalid segment line %d: %w", i, err)
		}
		network.AddSegment(seg)
	}

	edges := make([]InputEdge, 0, numEdges)
	for i := 0; i < numEdges; i++ {
		line, err := next()
		if err != nil {
			return nil, err
		}
		e, err := parseQueryEdge(line)
		if err != nil {
			return nil, fmt.Errorf("invalid edge line %d: %w", i, err)
		}
		edges = append(edges, e)
	}

	g := NewGraph(network, NewQueryGraph(numNodes, edges), contracted)
	if g.checksum != storedChecksum {
		return nil, ErrChecksumMismatch
	}
	return g, nil
}

func parseSegment(line []string) (RoadSegment, error) {
	if len(line) != 10 {
		return RoadSegment{}, errors.New("expected 10 fields")
	}
	from, err := ParseIndex(line[0])
	if err != nil {
		return RoadSegment{}, err
	}
	to, err := ParseIndex(line[1])
	if err != nil {
		return RoadSegment{}, err
	}
	fw, err := parseInt32(line[4])
	if err != nil {
		return RoadSegment{}, err
	}
	bw, err := parseInt32(line[5])
	if err != nil {
		return RoadSegment{}, err
	}
	length, err := strconv.ParseFloat(line[6], 64)
	if err != nil {
		return RoadSegment{}, err
	}
	hw, err := strconv.ParseUint(line[7], 10, 8)
	if err != nil {
		return RoadSegment{}, err
	}
	fNode, err := ParseIndex(line[8])
	if err != nil {
		return RoadSegment{}, err
	}
	bNode, err := ParseIndex(line[9])
	if err != nil {
		return RoadSegment{}, err
	}

	seg := NewRoadSegment(from, to, line[2] == "1", line[3] == "1", fw, bw, length, pkg.OsmHighwayType(hw))
	seg.SetEdgeBasedNodes(fNode, bNode)
	return seg, nil
}

func parseQueryEdge(line []string) (InputEdge, error) {
	if len(line) != 7 {
		return InputEdge{}, errors.New("expected 7 fields")
	}
	source, err := ParseIndex(line[0])
	if err != nil {
		return InputEdge{}, err
	}
	target, err := ParseIndex(line[1])
	if err != nil {
		return InputEdge{}, err
	}
	weight, err := parseInt32(line[2])
	if err != nil {
		return InputEdge{}, err
	}
	middle, err := ParseIndex(line[6])
	if err != nil {
		return InputEdge{}, err
	}
	return InputEdge{
		Source:   source,
		Target:   target,
		Weight:   weight,
		Forward:  line[3] == "1",
		Backward: line[4] == "1",
		Shortcut: line[5] == "1",
		Middle:   middle,
	}, nil
}
