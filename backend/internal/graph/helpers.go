package graph

// ============================================================================
// Row Coercion Helpers
// ============================================================================

func getString(row map[string]interface{}, key string) string {
	val, ok := row[key]
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getInt(row map[string]interface{}, key string) int {
	val, ok := row[key]
	if !ok || val == nil {
		return 0
	}
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func getStringSlice(row map[string]interface{}, key string) []string {
	val, ok := row[key]
	if !ok || val == nil {
		return nil
	}
	switch slice := val.(type) {
	case []string:
		return slice
	case []interface{}:
		result := make([]string, 0, len(slice))
		for _, v := range slice {
			if str, ok := v.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	return nil
}

// containsString reports whether s is in list
func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
