package metals

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllOrder(t *testing.T) {
	var symbols, names []string
	for _, m := range All() {
		symbols = append(symbols, m.Symbol)
		names = append(names, m.Name)
	}
	require.Equal(t, []string{"Al", "Cu", "Pb", "Ni", "Zn", "Sn"}, symbols)
	require.Equal(t, []string{"aluminium", "copper", "lead", "nickel", "zink", "tin"}, names)
}

func TestAllReturnsCopy(t *testing.T) {
	first := All()
	first[0].Name = "changed"
	require.Equal(t, "aluminium", All()[0].Name)
}

func TestBySymbol(t *testing.T) {
	m, err := BySymbol("cu")
	require.NoError(t, err)
	require.Equal(t, "copper", m.Name)
	require.Equal(t, "copper_database.csv", m.RecordFile())
	require.Equal(t, "copper_database.parquet", m.ParquetFile())

	_, err = BySymbol("Au")
	require.Error(t, err)
}

func TestForSymbols(t *testing.T) {
	require.Len(t, ForSymbols(nil), 6)

	got := ForSymbols([]string{"Sn", "bogus", " al "})
	require.Equal(t, []Metal{
		{Symbol: "Al", Name: "aluminium"},
		{Symbol: "Sn", Name: "tin"},
	}, got)

	require.Empty(t, ForSymbols([]string{"Au"}))
}
