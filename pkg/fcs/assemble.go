package fcs

// assembleParameters splits the flat parameter-major values into one
// Parameter per $PnN, in ascending n. Each Events slice aliases flat but is
// capped so appending to it cannot overwrite the next parameter.
func assembleParameters(flat []float64, md *Metadata, layout dataLayout) ([]Parameter, error) {
	params := int(layout.params)
	events := int(layout.events)

	out := make([]Parameter, 0, params)
	for n := 1; n <= params; n++ {
		name, ok := md.ParameterName(n)
		if !ok {
			return nil, missingKeyword(ParameterKeyword(n, 'N'))
		}
		start := (n - 1) * events
		end := start + events
		out = append(out, Parameter{
			ID:     name,
			Events: flat[start:end:end],
		})
	}
	return out, nil
}
