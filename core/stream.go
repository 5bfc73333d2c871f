package core

import (
	"fmt"

	"github.com/scribadev/scriba/internal/filters"
)

// Decode decodes the stream data according to the Filter(s) specified in the
// stream dictionary, applying filter chains in order. The result is cached,
// so repeated calls do not re-decode.
func (s *Stream) Decode() ([]byte, error) {
	if s.decoded != nil {
		return s.decoded, nil
	}

	filterObj := s.Dict.Get("Filter")
	if filterObj == nil {
		// No filter - the data is stored verbatim
		s.decoded = s.Data
		return s.Data, nil
	}

	paramsObj := s.Dict.Get("DecodeParms")
	if paramsObj == nil {
		paramsObj = s.Dict.Get("DP") // abbreviated form some writers emit
	}

	// Single filter
	if filterName, ok := filterObj.(Name); ok {
		decoded, err := decodeWithFilter(s.Data, string(filterName), paramsObjToDict(paramsObj))
		if err != nil {
			return nil, err
		}
		s.decoded = decoded
		return decoded, nil
	}

	// Filter array (chain of filters applied in order)
	filterArray, ok := filterObj.(Array)
	if !ok {
		return nil, fmt.Errorf("invalid Filter type: %T", filterObj)
	}

	data := s.Data
	for i, filter := range filterArray {
		filterName, ok := filter.(Name)
		if !ok {
			return nil, fmt.Errorf("filter %d is not a name: %T", i, filter)
		}

		// Decode params align with the filter array when both are arrays
		var params Dict
		if paramsArray, ok := paramsObj.(Array); ok {
			if i < len(paramsArray) {
				params = paramsObjToDict(paramsArray[i])
			}
		} else {
			params = paramsObjToDict(paramsObj)
		}

		var err error
		data, err = decodeWithFilter(data, string(filterName), params)
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s) failed: %w", i, filterName, err)
		}
	}

	s.decoded = data
	return data, nil
}

// decodeWithFilter applies a single decompression filter to data.
// The filterName should be a PDF filter name (e.g., "FlateDecode").
// Image codecs (DCT, JPX) pass through untouched: their payload is an
// encoded image, not text, and stays opaque to content extraction.
func decodeWithFilter(data []byte, filterName string, params Dict) ([]byte, error) {
	switch filterName {
	case "FlateDecode", "Fl":
		return filters.FlateDecode(data, dictToParams(params))

	case "LZWDecode", "LZW":
		return filters.LZWDecode(data, dictToParams(params))

	case "ASCIIHexDecode", "AHx":
		return filters.ASCIIHexDecode(data)

	case "ASCII85Decode", "A85":
		return filters.ASCII85Decode(data)

	case "RunLengthDecode", "RL":
		return filters.RunLengthDecode(data)

	case "CCITTFaxDecode", "CCF":
		return filters.CCITTFaxDecode(data, dictToParams(params))

	case "DCTDecode", "DCT":
		// JPEG image payload - passed through as-is
		return data, nil

	case "JPXDecode":
		// JPEG2000 image payload - passed through as-is
		return data, nil

	case "JBIG2Decode":
		return nil, fmt.Errorf("JBIG2Decode not supported")

	case "Crypt":
		// The default Identity crypt filter leaves data untouched
		if params != nil {
			if name, _ := params.GetName("Name"); name != "" && name != "Identity" {
				return nil, fmt.Errorf("crypt filter %q not supported", name)
			}
		}
		return data, nil

	default:
		return nil, fmt.Errorf("unknown filter: %s", filterName)
	}
}

// paramsObjToDict converts a DecodeParms object to a Dict.
// Returns nil if the object is nil, Null, or not a Dict.
func paramsObjToDict(obj Object) Dict {
	if dict, ok := obj.(Dict); ok {
		return dict
	}
	return nil
}

// dictToParams converts a core.Dict to filters.Params, translating PDF object
// types to Go primitive types (Int->int, Real->float64, Bool->bool, etc.).
func dictToParams(dict Dict) filters.Params {
	if dict == nil {
		return nil
	}

	params := make(filters.Params)
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case String:
			params[k] = string(obj)
		case Name:
			params[k] = string(obj)
		default:
			params[k] = v
		}
	}
	return params
}
