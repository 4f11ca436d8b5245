package config

// DefaultConfigTOML is the commented configuration template written by
// `clonefuse init`. Every setting is shown at its default value; users
// uncomment what they want to change.
const DefaultConfigTOML = `# clonefuse configuration file
# Place this file at your project root as .clonefuse.toml, or put the
# same sections under [tool.clonefuse] in pyproject.toml.

# Base-score weights for the fused similarity signals.
# The three weights must sum to 1.0.
# [weights]
# structural = 0.3
# semantic = 0.5
# dynamic = 0.2

# Clone classification thresholds on syntactic similarity, plus the
# semantic fallback (type4) and the score override floors.
# type1 > type2 > type3 must hold.
# [thresholds]
# type1_threshold = 0.95
# type2_threshold = 0.85
# type3_threshold = 0.60
# type4_threshold = 0.75
# syntactic_override = 0.7
# semantic_override = 0.8

# Result filtering.
# [filtering]
# min_score = 0.0
# max_results = 0  # 0 = unlimited

# Analysis bundle selection.
# [input]
# patterns = ["*.bundle.json"]
# exclude_patterns = []

# Output formatting.
# [output]
# format = "text"  # text, json, yaml, csv
# sort_by = "score"  # score, location, type
# show_details = false

# Bug propagation.
# [propagation]
# score_threshold = 0.7
# merge_results = true
`
